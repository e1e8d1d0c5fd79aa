package intake

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underwritr/submission-extractor/internal/common"
)

func TestArchiveSubmissionMovesFolderAndOutput(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "submissions", "acct-001")
	processed := filepath.Join(root, "processed")
	writeFile(t, filepath.Join(src, "loss-runs.pdf"), "pdf contents")
	output := filepath.Join(root, "data", "submission.txt")
	writeFile(t, output, "extracted")

	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	dstDir, dstOut, err := ArchiveSubmission(src, processed, output, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(processed, "acct-001"), dstDir)
	assert.Equal(t, filepath.Join(dstDir, "submission_20250314150926.txt"), dstOut)

	// Original folder is gone from the intake root.
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))

	// Contents survived the move intact.
	raw, err := os.ReadFile(filepath.Join(dstDir, "loss-runs.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf contents", string(raw))
	raw, err = os.ReadFile(dstOut)
	require.NoError(t, err)
	assert.Equal(t, "extracted", string(raw))
}

func TestArchiveSubmissionWithoutOutput(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "submissions", "acct-002")
	writeFile(t, filepath.Join(src, "notes.pdf"), "x")

	dstDir, dstOut, err := ArchiveSubmission(src, filepath.Join(root, "processed"), "", time.Now())
	require.NoError(t, err)
	assert.Empty(t, dstOut)
	_, err = os.Stat(filepath.Join(dstDir, "notes.pdf"))
	assert.NoError(t, err)
}

func TestArchiveSubmissionConflict(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "submissions", "acct-003")
	writeFile(t, filepath.Join(src, "a.pdf"), "x")
	processed := filepath.Join(root, "processed")
	require.NoError(t, os.MkdirAll(filepath.Join(processed, "acct-003"), 0o755))

	_, _, err := ArchiveSubmission(src, processed, "", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFilesystemConflict))

	// The source folder is untouched on conflict.
	_, err = os.Stat(filepath.Join(src, "a.pdf"))
	assert.NoError(t, err)
}
