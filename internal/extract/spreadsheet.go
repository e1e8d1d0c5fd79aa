package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/underwritr/submission-extractor/internal/assistant"
	"github.com/underwritr/submission-extractor/internal/tabular"
)

// ProcessSpreadsheet runs the tabular extraction path: upload the selected
// statement-of-values file, ask for the unique property-address rows, then
// ask for the aggregate value/occupancy fields on the same thread. Both
// replies are appended to the output buffer. With no tabular file the stage
// logs and returns without appending.
//
// The two prompts are deliberately separate turns; combining them degrades
// the model's row-level accuracy.
func (e *Extractor) ProcessSpreadsheet(ctx context.Context, scratchDir string, out *Buffer) error {
	rid := uuid.New().String()
	start := time.Now()

	sel, ok, err := tabular.SelectSpreadsheet(scratchDir)
	if err != nil {
		return fmt.Errorf("select spreadsheet: %w", err)
	}
	if !ok {
		e.log.Info("extract.spreadsheet.skip", "req_id", rid, "reason", "no xlsx, xls, or csv files in the data directory")
		return nil
	}
	e.log.Info("extract.spreadsheet.start",
		"req_id", rid,
		"file", filepath.Base(sel.Path),
		"has_sov_sheet", sel.HasSOV,
		"sov_rows", sel.SOVRows,
	)

	uploaded, err := e.client.UploadFile(ctx, sel.Path, "assistants")
	if err != nil {
		return fmt.Errorf("upload spreadsheet: %w", err)
	}

	thread, err := e.client.CreateThread(ctx, assistant.ThreadOptions{
		Messages: []assistant.MessageInput{{
			Role:    "user",
			Content: e.prompts.Address,
			Attachments: []assistant.Attachment{{
				FileID: uploaded.ID,
				Tools:  []assistant.Tool{{Type: "code_interpreter"}},
			}},
		}},
	})
	if err != nil {
		return fmt.Errorf("create thread: %w", err)
	}

	addresses, err := e.runAndReadReply(ctx, rid, thread.ID)
	if err != nil {
		return fmt.Errorf("address extraction: %w", err)
	}
	if err := out.AppendSection(addresses); err != nil {
		return err
	}

	if _, err := e.client.CreateMessage(ctx, thread.ID, assistant.MessageInput{
		Role:    "user",
		Content: e.prompts.Aggregate,
	}); err != nil {
		return fmt.Errorf("post aggregate prompt: %w", err)
	}
	aggregates, err := e.runAndReadReply(ctx, rid, thread.ID)
	if err != nil {
		return fmt.Errorf("aggregate extraction: %w", err)
	}
	if err := out.AppendFinal(aggregates); err != nil {
		return err
	}

	e.log.Info("extract.spreadsheet.ok",
		"req_id", rid,
		"file", filepath.Base(sel.Path),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
