package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underwritr/submission-extractor/constants"
	"github.com/underwritr/submission-extractor/internal/assistant"
	"github.com/underwritr/submission-extractor/internal/common"
	"github.com/underwritr/submission-extractor/internal/testutil"
)

func startRun(t *testing.T, c *assistant.Client) assistant.Run {
	t.Helper()
	thread, err := c.CreateThread(context.Background(), assistant.ThreadOptions{})
	require.NoError(t, err)
	run, err := c.CreateRun(context.Background(), thread.ID, "asst_1")
	require.NoError(t, err)
	return run
}

func TestWaitForRunReachesTerminalStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     constants.RunStatus
	}{
		{"completes after progress", []string{"queued", "in_progress", "in_progress", "completed"}, constants.RunStatusCompleted},
		{"fails", []string{"in_progress", "failed"}, constants.RunStatusFailed},
		{"cancelled", []string{"cancelled"}, constants.RunStatusCancelled},
		{"expired", []string{"in_progress", "expired"}, constants.RunStatusExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeAssistant()
			defer fake.Close()
			fake.RunStatuses = tt.statuses
			c := newClient(fake)
			run := startRun(t, c)

			got, err := c.WaitForRun(context.Background(), run.ThreadID, run.ID, time.Millisecond, time.Second)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestWaitForRunTimesOut(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	defer fake.Close()
	fake.RunStatuses = []string{"in_progress!"} // never terminates
	c := newClient(fake)
	run := startRun(t, c)

	_, err := c.WaitForRun(context.Background(), run.ThreadID, run.ID, time.Millisecond, 25*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRunTimeout))
}

func TestWaitForRunKeepsPollingWithoutTimeout(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	defer fake.Close()
	fake.RunStatuses = []string{"in_progress!"}
	c := newClient(fake)
	run := startRun(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.WaitForRun(ctx, run.ThreadID, run.ID, time.Millisecond, 0)
		done <- err
	}()

	// Still polling well past many intervals.
	select {
	case err := <-done:
		t.Fatalf("WaitForRun returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("WaitForRun did not honor cancellation")
	}
}

func TestUploadAndIndexPollsBatch(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	defer fake.Close()
	fake.BatchStatuses = []string{"in_progress", "in_progress", "completed"}
	c := newClient(fake)

	store, err := c.CreateVectorStore(context.Background(), "Submission Documents Vector Store")
	require.NoError(t, err)

	paths := writeDocs(t, "a.pdf", "b.docx")
	batch, err := c.UploadAndIndex(context.Background(), store.ID, paths, time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, constants.BatchStatusCompleted, batch.Status)
	assert.Equal(t, []string{"a.pdf", "b.docx"}, fake.UploadedFiles)
}

func TestUploadAndIndexTimesOut(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	defer fake.Close()
	fake.BatchStatuses = []string{"in_progress!"}
	c := newClient(fake)

	store, err := c.CreateVectorStore(context.Background(), "Submission Documents Vector Store")
	require.NoError(t, err)

	paths := writeDocs(t, "a.pdf")
	_, err = c.UploadAndIndex(context.Background(), store.ID, paths, time.Millisecond, 25*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrIndexingTimeout))
}
