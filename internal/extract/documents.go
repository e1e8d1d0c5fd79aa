package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/underwritr/submission-extractor/constants"
	"github.com/underwritr/submission-extractor/internal/assistant"
	"github.com/underwritr/submission-extractor/internal/intake"
)

// VectorStoreName labels the per-submission document index.
const VectorStoreName = "Submission Documents Vector Store"

// ProcessDocuments runs the PDF/Word extraction path: index the scratch
// documents into a fresh vector store, ask for the submission attributes on a
// thread bound to that store, and overwrite the output buffer with the reply.
// The vector store is deleted on every exit path. With no matching files the
// stage logs and returns without touching the buffer.
func (e *Extractor) ProcessDocuments(ctx context.Context, scratchDir string, out *Buffer) error {
	rid := uuid.New().String()
	start := time.Now()

	paths, err := intake.ListByExtensions(scratchDir, constants.DocumentExtensions)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(paths) == 0 {
		e.log.Info("extract.documents.skip", "req_id", rid, "reason", "no pdf or docx files in the data directory")
		return nil
	}
	e.log.Info("extract.documents.start", "req_id", rid, "files", len(paths))

	store, err := e.client.CreateVectorStore(ctx, VectorStoreName)
	if err != nil {
		return fmt.Errorf("create vector store: %w", err)
	}
	defer func() {
		// Cleanup must run even when ctx is already cancelled.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if derr := e.client.DeleteVectorStore(cleanupCtx, store.ID); derr != nil {
			e.log.Error("extract.documents.store_delete_failed", "req_id", rid, "vector_store_id", store.ID, "error", derr)
		} else {
			e.log.Info("extract.documents.store_deleted", "req_id", rid, "vector_store_id", store.ID)
		}
	}()

	batch, err := e.client.UploadAndIndex(ctx, store.ID, paths, e.poll.Interval, e.poll.Timeout)
	if err != nil {
		return fmt.Errorf("index documents: %w", err)
	}
	e.log.Info("extract.documents.indexed",
		"req_id", rid,
		"status", batch.Status,
		"completed", batch.FileCounts.Completed,
		"failed", batch.FileCounts.Failed,
		"total", batch.FileCounts.Total,
	)
	if batch.Status != constants.BatchStatusCompleted {
		return fmt.Errorf("file batch ended with status %s", batch.Status)
	}

	thread, err := e.client.CreateThread(ctx, assistant.ThreadOptions{
		VectorStoreIDs: []string{store.ID},
	})
	if err != nil {
		return fmt.Errorf("create thread: %w", err)
	}

	prompt := e.prompts.Document
	if e.validate {
		prompt += jsonModeSuffix
	}
	if _, err := e.client.CreateMessage(ctx, thread.ID, assistant.MessageInput{
		Role:    "user",
		Content: prompt,
	}); err != nil {
		return fmt.Errorf("post document prompt: %w", err)
	}

	text, err := e.runAndReadReply(ctx, rid, thread.ID)
	if err != nil {
		return err
	}

	if e.validate {
		if verr := ValidateJSONAgainstSchema(SubmissionFieldsSchema(), []byte(text)); verr != nil {
			e.log.Warn("extract.documents.validation_failed", "req_id", rid, "error", verr)
		} else {
			e.log.Info("extract.documents.validation_ok", "req_id", rid)
		}
	}

	if err := out.WriteDocuments(text); err != nil {
		return err
	}
	e.log.Info("extract.documents.ok",
		"req_id", rid,
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// runAndReadReply starts a run on the thread, waits for it, and returns the
// newest message's text.
func (e *Extractor) runAndReadReply(ctx context.Context, rid, threadID string) (string, error) {
	run, err := e.client.CreateRun(ctx, threadID, e.assistantID)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	run, err = e.client.WaitForRun(ctx, threadID, run.ID, e.poll.Interval, e.poll.Timeout)
	if err != nil {
		return "", fmt.Errorf("wait for run: %w", err)
	}
	if run.Status != constants.RunStatusCompleted {
		if run.LastError != nil {
			return "", fmt.Errorf("run ended with status %s: %s: %s", run.Status, run.LastError.Code, run.LastError.Message)
		}
		return "", fmt.Errorf("run ended with status %s", run.Status)
	}

	msgs, err := e.client.ListMessages(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	text, err := assistant.FirstMessageText(msgs)
	if err != nil {
		return "", err
	}
	e.log.Info("extract.reply", "req_id", rid, "thread_id", threadID, "run_id", run.ID, "chars", len(text))
	return text, nil
}
