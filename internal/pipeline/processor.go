package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/underwritr/submission-extractor/constants"
	"github.com/underwritr/submission-extractor/internal/common"
	"github.com/underwritr/submission-extractor/internal/extract"
	"github.com/underwritr/submission-extractor/internal/intake"
	"github.com/underwritr/submission-extractor/internal/journal"
)

// OutputFileName is the in-scratch name of the output buffer.
const OutputFileName = "submission.txt"

// Confirmer is called after each submission before the next one starts. The
// default implementation blocks on the console; tests and unattended runs
// install a no-op.
type Confirmer func(processed string) error

// ConsoleConfirmer blocks until the operator presses Enter.
func ConsoleConfirmer(in io.Reader, out io.Writer) Confirmer {
	reader := bufio.NewReader(in)
	return func(string) error {
		fmt.Fprint(out, "Press Enter to process the next submission...")
		_, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// AutoConfirmer never pauses.
func AutoConfirmer() Confirmer {
	return func(string) error { return nil }
}

// Processor coordinates intake, the two extraction stages, cleanup and
// archival for each submission folder, journaling every run.
type Processor struct {
	Logger    *slog.Logger
	Extractor *extract.Extractor
	Journal   *journal.Journal
	Dirs      common.DirsConfig
	Confirm   Confirmer
}

func NewProcessor(logger *slog.Logger, ex *extract.Extractor, jr *journal.Journal, dirs common.DirsConfig, confirm Confirmer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if confirm == nil {
		confirm = AutoConfirmer()
	}
	return &Processor{Logger: logger, Extractor: ex, Journal: jr, Dirs: dirs, Confirm: confirm}
}

// Run iterates the intake root, processing each submission folder in order
// and pausing at the confirmer between iterations. The first failure stops
// the loop; the half-processed submission stays in the intake root and its
// journal row is marked FAILED.
func (p *Processor) Run(ctx context.Context) error {
	names, err := intake.ListSubmissions(p.Dirs.Submissions)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		p.Logger.Info("pipeline.idle", "intake_dir", p.Dirs.Submissions)
		return nil
	}

	for _, name := range names {
		done, err := p.Journal.Archived(ctx, name)
		if err != nil {
			return err
		}
		if done {
			// Same-named folder re-dropped after a successful archive; moving
			// it again would collide with the archived copy.
			p.Logger.Warn("pipeline.skip_archived", "submission", name)
			continue
		}

		if _, _, err := p.ProcessSubmission(ctx, name); err != nil {
			return err
		}
		if err := p.Confirm(name); err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
	}
	p.Logger.Info("pipeline.done", "submissions", len(names))
	return nil
}

// ProcessSubmission runs the full per-folder sequence and returns the
// archived folder path and final output file path.
func (p *Processor) ProcessSubmission(ctx context.Context, name string) (string, string, error) {
	runID, err := p.Journal.Begin(ctx, name)
	if err != nil {
		return "", "", err
	}
	archiveDir, outputFile, err := p.processSubmission(ctx, name)
	if err != nil {
		p.Logger.Error("pipeline.submission.failed", "submission", name, "run_id", runID, "error", err)
		if jerr := p.Journal.Finish(ctx, runID, constants.JournalStatusFailed, "", "", err.Error()); jerr != nil {
			p.Logger.Error("pipeline.journal.finish_failed", "run_id", runID, "error", jerr)
		}
		return "", "", err
	}
	if jerr := p.Journal.Finish(ctx, runID, constants.JournalStatusArchived, archiveDir, outputFile, ""); jerr != nil {
		p.Logger.Error("pipeline.journal.finish_failed", "run_id", runID, "error", jerr)
	}
	p.Logger.Info("pipeline.submission.ok",
		"submission", name,
		"run_id", runID,
		"archive_dir", archiveDir,
		"output_file", outputFile,
	)
	return archiveDir, outputFile, nil
}

func (p *Processor) processSubmission(ctx context.Context, name string) (string, string, error) {
	srcDir := filepath.Join(p.Dirs.Submissions, name)

	if err := intake.ResetScratch(p.Dirs.Data); err != nil {
		return "", "", err
	}
	results, stats, err := intake.CopySubmission(srcDir, p.Dirs.Data)
	if err != nil {
		return "", "", err
	}
	for _, r := range results {
		if r.Err != "" {
			return "", "", fmt.Errorf("stage %s: %s", r.SourcePath, r.Err)
		}
	}
	p.Logger.Info("pipeline.intake.ok",
		"submission", name,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"copied", stats.Copied,
	)

	out := extract.NewBuffer(filepath.Join(p.Dirs.Data, OutputFileName))
	if err := p.Extractor.ProcessDocuments(ctx, p.Dirs.Data, out); err != nil {
		return "", "", fmt.Errorf("document extraction: %w", err)
	}
	if err := p.Extractor.ProcessSpreadsheet(ctx, p.Dirs.Data, out); err != nil {
		return "", "", fmt.Errorf("spreadsheet extraction: %w", err)
	}

	outputPath := out.Path()
	if _, err := os.Stat(outputPath); errors.Is(err, os.ErrNotExist) {
		// Folder held no extractable files; archive it without an output file.
		p.Logger.Warn("pipeline.no_output", "submission", name)
		outputPath = ""
	} else if err != nil {
		return "", "", err
	}
	if outputPath != "" {
		if err := out.Cleanup(); err != nil {
			return "", "", err
		}
	}
	return intake.ArchiveSubmission(srcDir, p.Dirs.Processed, outputPath, time.Now())
}
