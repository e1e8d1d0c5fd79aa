package constants

import "strings"

// EligibleExtensions holds the file extensions copied from a submission
// folder into the scratch workspace.
var EligibleExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"xlsx": {},
}

// DocumentExtensions holds the extensions handled by the document
// (vector-store) extraction path.
var DocumentExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
}

// TabularExtensions lists the spreadsheet extensions in selection order.
var TabularExtensions = []string{"xlsx", "xls", "csv"}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
