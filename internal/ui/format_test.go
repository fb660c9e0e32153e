package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeDate(t *testing.T) {
	ago := func(d time.Duration) string {
		return testNow.Add(-d).Format("2006-01-02T15:04:05.000Z")
	}
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"empty", "", ""},
		{"garbage", "yesterday", ""},
		{"future", ago(-time.Hour), "just now"},
		{"seconds", ago(30 * time.Second), "just now"},
		{"minutes", ago(5 * time.Minute), "5m ago"},
		{"hours", ago(3 * time.Hour), "3h ago"},
		{"days", ago(2 * day), "2d ago"},
		{"weeks", ago(15 * day), "2w ago"},
		{"months", ago(125 * day), "4mo ago"},
		{"years", ago(800 * day), "2y ago"},
		{"no millis", "2025-06-01T11:00:00Z", "1h ago"},
		{"date only", "2025-05-30", "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeDate(tt.value, testNow))
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly", truncate("exactly", 7))
	assert.Equal(t, "trunc..", truncate("truncated text", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("", 4))

	// wide runes count two cells
	assert.Equal(t, "日本..", truncate("日本語のテキスト", 6))

	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "   42", padLeft("42", 5))
	assert.Equal(t, "abc..", padRight("abcdefgh", 5))
}
