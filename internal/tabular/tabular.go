// Package tabular picks the spreadsheet file the aggregate-extraction path
// should upload. Statement-of-values workbooks carry their property rows in a
// sheet named "SOV APP", so a workbook containing that sheet wins over plain
// first-found ordering.
package tabular

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/underwritr/submission-extractor/constants"
	"github.com/underwritr/submission-extractor/internal/intake"
)

// SOVSheetName is the tab the extraction instructions point the model at.
const SOVSheetName = "SOV APP"

// Selection describes the chosen spreadsheet.
type Selection struct {
	Path    string
	HasSOV  bool
	Sheets  []string
	SOVRows int
	FileExt string
}

// SelectSpreadsheet returns the tabular file to process from dir, or ok=false
// when none exists. xlsx files are inspected and one carrying the SOV sheet
// is preferred; otherwise the first candidate in xlsx, xls, csv order wins.
func SelectSpreadsheet(dir string) (Selection, bool, error) {
	var candidates []string
	for _, ext := range constants.TabularExtensions {
		paths, err := intake.ListByExtensions(dir, map[string]struct{}{ext: {}})
		if err != nil {
			return Selection{}, false, err
		}
		candidates = append(candidates, paths...)
	}
	if len(candidates) == 0 {
		return Selection{}, false, nil
	}

	for _, p := range candidates {
		if constants.NormalizeExt(filepath.Ext(p)) != "xlsx" {
			continue
		}
		sel, err := inspectWorkbook(p)
		if err != nil {
			// Unreadable workbook: fall through to plain ordering.
			continue
		}
		if sel.HasSOV {
			return sel, true, nil
		}
	}

	first := candidates[0]
	sel := Selection{Path: first, FileExt: constants.NormalizeExt(filepath.Ext(first))}
	if sel.FileExt == "xlsx" {
		if inspected, err := inspectWorkbook(first); err == nil {
			sel = inspected
		}
	}
	return sel, true, nil
}

func inspectWorkbook(path string) (Selection, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Selection{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sel := Selection{
		Path:    path,
		Sheets:  f.GetSheetList(),
		FileExt: constants.NormalizeExt(filepath.Ext(path)),
	}
	for _, sheet := range sel.Sheets {
		if sheet != SOVSheetName {
			continue
		}
		sel.HasSOV = true
		rows, err := f.GetRows(sheet)
		if err == nil {
			sel.SOVRows = len(rows)
		}
		break
	}
	return sel, nil
}
