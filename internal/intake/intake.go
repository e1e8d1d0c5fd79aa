// Package intake owns the local filesystem side of the pipeline: selecting
// submission folders, staging their files into the scratch workspace and
// archiving processed folders.
package intake

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/underwritr/submission-extractor/constants"
)

// CopyResult is the per-file staging outcome.
type CopyResult struct {
	SourcePath string
	DestPath   string
	FileExt    string
	Err        string
}

// CopyStats summarizes one staging pass.
type CopyStats struct {
	Scanned uint32
	Matched uint32
	Copied  uint32
	Failed  uint32
}

// ListSubmissions returns the names of submission folders under root, in
// lexical order. Plain files in the intake root are ignored.
func ListSubmissions(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read intake dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ResetScratch empties the scratch workspace, creating it if missing.
func ResetScratch(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return fmt.Errorf("read scratch dir: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("clear scratch: %w", err)
		}
	}
	return nil
}

// CopySubmission copies the eligible files from a submission folder into the
// scratch workspace. Only top-level files whose extension appears in
// constants.EligibleExtensions are copied; everything else is left behind.
func CopySubmission(srcDir, scratchDir string) ([]CopyResult, CopyStats, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, CopyStats{}, fmt.Errorf("read submission dir: %w", err)
	}

	var results []CopyResult
	var stats CopyStats
	for _, e := range entries {
		stats.Scanned++
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := constants.EligibleExtensions[ext]; !ok {
			continue
		}
		stats.Matched++

		src := filepath.Join(srcDir, e.Name())
		dst := filepath.Join(scratchDir, e.Name())
		if err := copyFile(src, dst); err != nil {
			results = append(results, CopyResult{SourcePath: src, FileExt: ext, Err: err.Error()})
			stats.Failed++
			continue
		}
		results = append(results, CopyResult{SourcePath: src, DestPath: dst, FileExt: ext})
		stats.Copied++
	}
	return results, stats, nil
}

// ListByExtensions returns the scratch files matching any of the given
// extensions, in lexical order.
func ListByExtensions(dir string, exts map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := exts[constants.NormalizeExt(filepath.Ext(e.Name()))]; ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
