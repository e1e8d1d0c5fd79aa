package assistant

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/underwritr/submission-extractor/internal/common"
)

// CreateRun starts an assistant execution against a thread.
func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string) (Run, error) {
	body := map[string]any{"assistant_id": assistantID}
	var out Run
	if err := c.doJSON(ctx, http.MethodPost, "threads/"+threadID+"/runs", body, &out); err != nil {
		return Run{}, err
	}
	return out, nil
}

// GetRun retrieves a run for polling.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	var out Run
	if err := c.doJSON(ctx, http.MethodGet, "threads/"+threadID+"/runs/"+runID, nil, &out); err != nil {
		return Run{}, err
	}
	return out, nil
}

// WaitForRun polls a run at a fixed interval until it reaches a terminal
// status (completed, cancelled, expired, failed). The wait is bounded by
// timeout (0 waits forever) and cancellable through ctx; elapsed time and
// status are logged on every tick.
func (c *Client) WaitForRun(ctx context.Context, threadID, runID string, interval, timeout time.Duration) (Run, error) {
	start := time.Now()

	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Run{}, ctx.Err()
		case <-deadline:
			return Run{}, fmt.Errorf("%w: run %s after %s", common.ErrRunTimeout, runID, time.Since(start).Round(time.Second))
		case <-ticker.C:
		}

		run, err := c.GetRun(ctx, threadID, runID)
		if err != nil {
			return Run{}, err
		}
		elapsed := time.Since(start)
		c.log.Info("run.poll",
			"thread_id", threadID,
			"run_id", runID,
			"status", run.Status,
			"elapsed", fmt.Sprintf("%d minutes %d seconds", int(elapsed.Minutes()), int(elapsed.Seconds())%60),
		)
		if run.Status.Terminal() {
			return run, nil
		}
	}
}
