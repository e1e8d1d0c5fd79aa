package assistant

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/underwritr/submission-extractor/internal/common"
)

// CreateVectorStore creates a fresh document index.
func (c *Client) CreateVectorStore(ctx context.Context, name string) (VectorStore, error) {
	var out VectorStore
	if err := c.doJSON(ctx, http.MethodPost, "vector_stores", map[string]any{"name": name}, &out); err != nil {
		return VectorStore{}, err
	}
	return out, nil
}

// DeleteVectorStore removes a document index.
func (c *Client) DeleteVectorStore(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "vector_stores/"+id, nil, nil)
}

// CreateFileBatch attaches already-uploaded files to a vector store.
func (c *Client) CreateFileBatch(ctx context.Context, vectorStoreID string, fileIDs []string) (FileBatch, error) {
	body := map[string]any{"file_ids": fileIDs}
	var out FileBatch
	if err := c.doJSON(ctx, http.MethodPost, "vector_stores/"+vectorStoreID+"/file_batches", body, &out); err != nil {
		return FileBatch{}, err
	}
	return out, nil
}

// GetFileBatch retrieves a file batch for polling.
func (c *Client) GetFileBatch(ctx context.Context, vectorStoreID, batchID string) (FileBatch, error) {
	var out FileBatch
	if err := c.doJSON(ctx, http.MethodGet, "vector_stores/"+vectorStoreID+"/file_batches/"+batchID, nil, &out); err != nil {
		return FileBatch{}, err
	}
	return out, nil
}

// UploadAndIndex uploads the given local files, attaches them to the vector
// store as one batch, and blocks until indexing reaches a terminal status.
// Waiting is bounded by timeout (0 waits forever) and ctx.
func (c *Client) UploadAndIndex(ctx context.Context, vectorStoreID string, paths []string, interval, timeout time.Duration) (FileBatch, error) {
	start := time.Now()
	fileIDs := make([]string, 0, len(paths))
	for _, p := range paths {
		f, err := c.UploadFile(ctx, p, "assistants")
		if err != nil {
			return FileBatch{}, err
		}
		c.log.Info("vectorstore.file.uploaded",
			"vector_store_id", vectorStoreID,
			"file_id", f.ID,
			"filename", filepath.Base(p),
			"bytes", f.Bytes,
		)
		fileIDs = append(fileIDs, f.ID)
	}

	batch, err := c.CreateFileBatch(ctx, vectorStoreID, fileIDs)
	if err != nil {
		return FileBatch{}, err
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !batch.Status.Terminal() {
		select {
		case <-ctx.Done():
			return batch, ctx.Err()
		case <-deadline:
			return batch, fmt.Errorf("%w: batch %s after %s", common.ErrIndexingTimeout, batch.ID, time.Since(start).Round(time.Second))
		case <-ticker.C:
		}
		batch, err = c.GetFileBatch(ctx, vectorStoreID, batch.ID)
		if err != nil {
			return batch, err
		}
		c.log.Info("vectorstore.batch.poll",
			"vector_store_id", vectorStoreID,
			"batch_id", batch.ID,
			"status", batch.Status,
			"completed", batch.FileCounts.Completed,
			"total", batch.FileCounts.Total,
			"elapsed", time.Since(start).Round(time.Second).String(),
		)
	}
	return batch, nil
}
