package extract

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf16"
)

// Section delimiters carried over from the archive format consumers already
// parse: the spreadsheet section is fenced, the aggregate section is only
// blank-line separated.
const (
	sectionOpen  = "\n\n------------------------\n\n"
	sectionClose = "\n\n---------------------------------"
	finalWrap    = "\n\n"
)

// Buffer is the per-submission output file accumulating extraction results.
// Each result is stored as a JSON-encoded string so embedded newlines and
// non-ASCII characters survive as escape sequences until the cleanup pass.
type Buffer struct {
	path string
}

func NewBuffer(path string) *Buffer {
	return &Buffer{path: path}
}

func (b *Buffer) Path() string { return b.path }

// WriteDocuments overwrites the buffer with the document-path result.
func (b *Buffer) WriteDocuments(text string) error {
	return os.WriteFile(b.path, []byte(encodeJSONString(text)), 0o644)
}

// AppendSection appends the spreadsheet row-extraction result inside
// delimiter fences.
func (b *Buffer) AppendSection(text string) error {
	return b.append(sectionOpen + encodeJSONString(text) + sectionClose)
}

// AppendFinal appends the aggregate-extraction result.
func (b *Buffer) AppendFinal(text string) error {
	return b.append(finalWrap + encodeJSONString(text) + finalWrap)
}

func (b *Buffer) append(s string) error {
	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output buffer: %w", err)
	}
	if _, err := f.WriteString(s); err != nil {
		f.Close()
		return fmt.Errorf("append output buffer: %w", err)
	}
	return f.Close()
}

// Cleanup rewrites the buffer through CleanupText.
func (b *Buffer) Cleanup() error {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		return fmt.Errorf("read output buffer: %w", err)
	}
	return os.WriteFile(b.path, []byte(CleanupText(string(raw))), 0o644)
}

// CleanupText converts the model's citation-bracket escapes to readable
// characters and unescapes embedded newlines. The bracket and dagger
// substitutions are idempotent; the newline unescape is not, so it runs last
// and exactly once per buffer.
func CleanupText(s string) string {
	s = strings.ReplaceAll(s, `\u3010`, "[")
	s = strings.ReplaceAll(s, `\u3011`, "]")
	s = strings.ReplaceAll(s, `\u2020`, "†")
	s = strings.ReplaceAll(s, `\n`, "\n")
	return s
}

// encodeJSONString quotes s as a JSON string with every non-ASCII rune
// escaped to \uXXXX (surrogate pairs above the BMP), matching the encoder the
// archive format was defined against.
func encodeJSONString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(&b, `\u%04x`, r)
			case r < 0x80:
				b.WriteRune(r)
			case r <= 0xFFFF:
				fmt.Fprintf(&b, `\u%04x`, r)
			default:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
