// assistantctl looks up or provisions the shared extraction assistant and
// prints its identity, so the remote resource can be inspected without
// running the whole pipeline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/underwritr/submission-extractor/internal/assistant"
	"github.com/underwritr/submission-extractor/internal/common"
	"github.com/underwritr/submission-extractor/internal/extract"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	fmt.Printf("id:    %s\n", asst.ID)
	fmt.Printf("name:  %s\n", asst.Name)
	fmt.Printf("model: %s\n", asst.Model)
	for _, t := range asst.Tools {
		fmt.Printf("tool:  %s\n", t.Type)
	}
}
