package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSectionOrder(t *testing.T) {
	dir := t.TempDir()
	b := NewBuffer(filepath.Join(dir, "submission.txt"))

	require.NoError(t, b.WriteDocuments("documents"))
	require.NoError(t, b.AppendSection("addresses"))
	require.NoError(t, b.AppendFinal("aggregates"))

	raw, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	got := string(raw)

	docIdx := strings.Index(got, `"documents"`)
	delimIdx := strings.Index(got, "------------------------")
	addrIdx := strings.Index(got, `"addresses"`)
	aggIdx := strings.Index(got, `"aggregates"`)

	require.NotEqual(t, -1, docIdx)
	require.NotEqual(t, -1, delimIdx)
	require.NotEqual(t, -1, addrIdx)
	require.NotEqual(t, -1, aggIdx)
	assert.Less(t, docIdx, delimIdx)
	assert.Less(t, delimIdx, addrIdx)
	assert.Less(t, addrIdx, aggIdx)
}

func TestBufferAppendWithoutDocuments(t *testing.T) {
	// The document path may have been skipped; appends must create the file.
	dir := t.TempDir()
	b := NewBuffer(filepath.Join(dir, "submission.txt"))

	require.NoError(t, b.AppendSection("addresses"))
	raw, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"addresses"`)
	assert.NotContains(t, string(raw), `"documents"`)
}

func TestWriteDocumentsOverwrites(t *testing.T) {
	dir := t.TempDir()
	b := NewBuffer(filepath.Join(dir, "submission.txt"))

	require.NoError(t, b.WriteDocuments("stale"))
	require.NoError(t, b.WriteDocuments("fresh"))
	raw, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	assert.Equal(t, `"fresh"`, string(raw))
}

func TestEncodeJSONString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "NamedInsured: Acme", `"NamedInsured: Acme"`},
		{"newline", "a\nb", `"a\nb"`},
		{"quote and backslash", `say "hi" \ bye`, `"say \"hi\" \\ bye"`},
		{"citation brackets", "source 【4:0†file】", `"source \u30104:0\u2020file\u3011"`},
		{"astral plane", "ok \U0001F600", `"ok \ud83d\ude00"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeJSONString(tt.in))
		})
	}
}

func TestCleanupTextSubstitutions(t *testing.T) {
	in := `"fields \u3010cited\u3011 \u2020 first\nsecond"`
	got := CleanupText(in)

	assert.NotContains(t, got, `\u3010`)
	assert.NotContains(t, got, `\u3011`)
	assert.NotContains(t, got, `\u2020`)
	assert.Contains(t, got, "[cited]")
	assert.Contains(t, got, "†")
	assert.Contains(t, got, "first\nsecond")
}

func TestCleanupBracketSubstitutionIdempotent(t *testing.T) {
	in := `\u3010a\u3011 \u2020`
	once := CleanupText(in)
	twice := CleanupText(once)
	assert.Equal(t, "[a] †", once)
	assert.Equal(t, once, twice)
}

func TestCleanupNewlineUnescapeMixed(t *testing.T) {
	// Escaped and literal newlines collapse to the same character, so the
	// distinction is unrecoverable after one pass.
	in := "first\\nsecond\nthird"
	got := CleanupText(in)
	assert.Equal(t, "first\nsecond\nthird", got)

	// An escaped backslash before 'n' is consumed too, shifting meaning;
	// the replacement is blind to JSON escape structure.
	assert.Equal(t, "a\\\nb", CleanupText(`a\\nb`))
}

func TestBufferCleanupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	b := NewBuffer(filepath.Join(dir, "submission.txt"))

	require.NoError(t, b.WriteDocuments("Named Insured: Acme 【1:0†submission.pdf】\nDBA: AcmeCo"))
	require.NoError(t, b.Cleanup())

	raw, err := os.ReadFile(b.Path())
	require.NoError(t, err)
	got := string(raw)
	assert.NotContains(t, got, `\u3010`)
	assert.NotContains(t, got, `\u3011`)
	assert.NotContains(t, got, `\u2020`)
	assert.Contains(t, got, "[1:0†submission.pdf]")
	assert.Contains(t, got, "Acme [1:0†submission.pdf]\nDBA")
}
