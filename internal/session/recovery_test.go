package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestNeedsRecovery(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"", true},
		{"No prompt", true},
		{"[Request interrupted by user]", true},
		{"<command-message>init</command-message>", true},
		{"Fix the login redirect", false},
		{"No prompt here, just text", false},
		{" <leading space>", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NeedsRecovery(tt.prompt), "%q", tt.prompt)
	}
}

func TestRecoverFirstPromptSkipsWeakPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	writeLines(t, path,
		`{"type":"summary","summary":"Uploader work"}`,
		`{"type":"user","userType":"external","message":{"role":"user","content":"<command-name>/clear</command-name>"}}`,
		`{"type":"user","userType":"internal","message":{"role":"user","content":"internal note that is long enough"}}`,
		`{"type":"user","userType":"external","message":{"role":"user","content":[{"type":"tool_result","content":"ok"},{"type":"text","text":"Add retries to the uploader"}]}}`,
		`{"type":"user","userType":"external","message":{"role":"user","content":"a later prompt"}}`,
	)

	got, ok := RecoverFirstPrompt(path)
	require.True(t, ok)
	assert.Equal(t, "Add retries to the uploader", got)
}

func TestRecoverFirstPromptRegexFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	// the line is cut off mid-string, as a head read would leave it
	writeLines(t, path,
		`{"type":"user","userType":"external","message":{"role":"user","content":"Refactor the parser so that \"quoted\" text\nworks and C:\\tmp too`,
	)

	got, ok := RecoverFirstPrompt(path)
	require.True(t, ok)
	assert.Equal(t, `Refactor the parser so that "quoted" text works and C:\tmp too`, got)
}

func TestRecoverFirstPromptFallbackNeedsMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	writeLines(t, path,
		`{"type":"assistant","message":{"content":"this assistant text is long enough`,
		`{"type":"user","message":{"content":"missing the external marker here`,
	)

	_, ok := RecoverFirstPrompt(path)
	assert.False(t, ok)
}

func TestRecoverFirstPromptReadsOnlyHead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	big := `{"type":"assistant","message":{"content":"` + strings.Repeat("x", headBytes+1024) + `"}}`
	writeLines(t, path,
		big,
		`{"type":"user","userType":"external","message":{"content":"Beyond the head chunk"}}`,
	)

	_, ok := RecoverFirstPrompt(path)
	assert.False(t, ok, "prompts past the first 32 KiB must not be seen")
}

func TestRecoverFirstPromptMissingFile(t *testing.T) {
	_, ok := RecoverFirstPrompt(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.False(t, ok)
}

func TestRecoverFirstPromptNeverReturnsWeakPrompt(t *testing.T) {
	weak := []string{
		`{"type":"user","userType":"external","message":{"content":"No prompt"}}`,
		`{"type":"user","userType":"external","message":{"content":"[Request interrupted by user]"}}`,
		`{"type":"user","userType":"external","message":{"content":"<system-reminder>x</system-reminder>"}}`,
		`{"type":"user","userType":"external","message":{"content":""}}`,
		`{"type":"user","userType":"external","message":{"content":"<truncated tag soup that goes on`,
		`{"type":"user","userType":"external","message":{"content":"[Request interrupted by user for tool use`,
	}
	dir := t.TempDir()
	for i := range weak {
		path := filepath.Join(dir, "weak.jsonl")
		writeLines(t, path, weak[:i+1]...)
		got, ok := RecoverFirstPrompt(path)
		if ok {
			assert.False(t, NeedsRecovery(got), "returned weak prompt %q", got)
		}
	}
}

func TestUnescapeContentIsSequential(t *testing.T) {
	// `\\n` first loses its `\n` tail, leaving a single backslash
	assert.Equal(t, `a\ b`, unescapeContent(`a\\nb`))
	assert.Equal(t, `say "hi"`, unescapeContent(`say \"hi\"`))
}
