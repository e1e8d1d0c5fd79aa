package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/underwritr/submission-extractor/internal/common"
)

// ArchiveSubmission relocates a processed submission folder under the archive
// root and moves the output buffer into it under a timestamp-qualified name.
// Returns the archived folder path and the final output file path. An already
// existing destination folder is a conflict, not an overwrite. An empty
// outputPath archives the folder alone (the submission held nothing to
// extract).
func ArchiveSubmission(srcDir, processedRoot, outputPath string, now time.Time) (string, string, error) {
	if err := os.MkdirAll(processedRoot, 0o755); err != nil {
		return "", "", fmt.Errorf("create archive root: %w", err)
	}

	dstDir := filepath.Join(processedRoot, filepath.Base(srcDir))
	if _, err := os.Stat(dstDir); err == nil {
		return "", "", fmt.Errorf("%w: %s already exists", common.ErrFilesystemConflict, dstDir)
	}
	if err := moveDir(srcDir, dstDir); err != nil {
		return "", "", fmt.Errorf("move submission folder: %w", err)
	}
	if outputPath == "" {
		return dstDir, "", nil
	}

	name := fmt.Sprintf("submission_%s.txt", now.Format("20060102150405"))
	dstOut := filepath.Join(dstDir, name)
	if err := moveFile(outputPath, dstOut); err != nil {
		return dstDir, "", fmt.Errorf("move output file: %w", err)
	}
	return dstDir, dstOut, nil
}

// moveDir renames when possible and falls back to copy+remove across devices.
func moveDir(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
