package assistant_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underwritr/submission-extractor/internal/assistant"
	"github.com/underwritr/submission-extractor/internal/common"
	"github.com/underwritr/submission-extractor/internal/testutil"
)

func newClient(f *testutil.FakeAssistant) *assistant.Client {
	return assistant.New(assistant.Config{
		Endpoint:   f.URL(),
		APIKey:     "test-key",
		APIVersion: "2024-05-01-preview",
		Deployment: "gpt-4o",
		Timeout:    5 * time.Second,
	}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}

// writeDocs creates throwaway files and returns their paths.
func writeDocs(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("contents of "+name), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestEnsureAssistantCreatesWhenAbsent(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	defer fake.Close()
	c := newClient(fake)

	asst, err := c.EnsureAssistant(context.Background(), "Insurance Submission Extractor", "instructions")
	require.NoError(t, err)
	assert.NotEmpty(t, asst.ID)
	require.Len(t, fake.CreatedAssistants, 1)
	assert.Equal(t, "Insurance Submission Extractor", fake.CreatedAssistants[0]["name"])
	assert.Equal(t, "gpt-4o", fake.CreatedAssistants[0]["model"])

	tools, ok := fake.CreatedAssistants[0]["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 2)
}

func TestEnsureAssistantReusesByName(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	defer fake.Close()
	fake.ExistingAssistants = []map[string]any{
		{"id": "asst_other", "name": "Something Else"},
		{"id": "asst_existing", "name": "Insurance Submission Extractor"},
	}
	c := newClient(fake)

	asst, err := c.EnsureAssistant(context.Background(), "Insurance Submission Extractor", "instructions")
	require.NoError(t, err)
	assert.Equal(t, "asst_existing", asst.ID)
	assert.Empty(t, fake.CreatedAssistants)
}

func TestUploadFile(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	defer fake.Close()
	c := newClient(fake)

	path := filepath.Join(t.TempDir(), "sov.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("workbook bytes"), 0o644))

	f, err := c.UploadFile(context.Background(), path, "assistants")
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, []string{"sov.xlsx"}, fake.UploadedFiles)
}

func TestRemoteErrorsWrapSentinel(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	fake.Close() // refuse connections
	c := newClient(fake)

	_, err := c.ListAssistants(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteCall))
}

func TestFirstMessageText(t *testing.T) {
	msgs := []assistant.Message{{
		ID:   "msg_1",
		Role: "assistant",
		Content: []assistant.ContentBlock{
			{Type: "image_file"},
			{Type: "text", Text: assistant.TextBlock{Value: "NamedInsured: Acme"}},
		},
	}}
	text, err := assistant.FirstMessageText(msgs)
	require.NoError(t, err)
	assert.Equal(t, "NamedInsured: Acme", text)
}

func TestFirstMessageTextMissing(t *testing.T) {
	_, err := assistant.FirstMessageText(nil)
	assert.True(t, errors.Is(err, common.ErrFieldMissing))

	_, err = assistant.FirstMessageText([]assistant.Message{{ID: "msg_1"}})
	assert.True(t, errors.Is(err, common.ErrFieldMissing))
}
