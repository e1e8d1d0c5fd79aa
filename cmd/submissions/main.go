package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/underwritr/submission-extractor/internal/assistant"
	"github.com/underwritr/submission-extractor/internal/common"
	"github.com/underwritr/submission-extractor/internal/extract"
	"github.com/underwritr/submission-extractor/internal/journal"
	"github.com/underwritr/submission-extractor/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, dir := range []string{cfg.Dirs.Submissions, cfg.Dirs.Data, cfg.Dirs.Processed} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("create directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	prompts, err := extract.LoadPrompts(cfg.Extract.PromptsFile)
	if err != nil {
		logger.Error("load prompts", "file", cfg.Extract.PromptsFile, "error", err)
		os.Exit(2)
	}

	client := assistant.New(assistant.Config{
		Endpoint:   cfg.Azure.Endpoint,
		APIKey:     cfg.Azure.APIKey,
		APIVersion: cfg.Azure.APIVersion,
		Deployment: cfg.Azure.Deployment,
		Timeout:    cfg.Azure.Timeout,
	}, logger)

	asst, err := client.EnsureAssistant(ctx, extract.AssistantName, extract.AssistantInstructions)
	if err != nil {
		logger.Error("provision assistant", "error", err)
		os.Exit(1)
	}

	jr, err := journal.Open(ctx, cfg.Journal.Path, logger)
	if err != nil {
		logger.Error("open journal", "path", cfg.Journal.Path, "error", err)
		os.Exit(1)
	}
	defer jr.Close()

	extractor := extract.NewExtractor(client, asst.ID, cfg.Poll, prompts, cfg.Extract.Validate, logger)

	confirm := pipeline.ConsoleConfirmer(os.Stdin, os.Stdout)
	if cfg.AutoConfirm {
		confirm = pipeline.AutoConfirmer()
	}

	proc := pipeline.NewProcessor(logger, extractor, jr, cfg.Dirs, confirm)
	if err := proc.Run(ctx); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
	logger.Info("all submissions have been processed")
}
