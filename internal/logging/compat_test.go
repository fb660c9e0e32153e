package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeWriterParsesCategory(t *testing.T) {
	Shutdown()
	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir})
	defer Shutdown()

	bw := NewBridgeWriter("legacy")
	tests := []struct {
		input    string
		wantComp string
		wantMsg  string
	}{
		{"[SCANNER] skipped unreadable dir\n", CompScan, "skipped unreadable dir"},
		{"[FSNOTIFY] queue overflow\n", CompWatch, "queue overflow"},
		{"[TERMINAL] wt.exe missing\n", CompLaunch, "wt.exe missing"},
		{"plain message\n", "legacy", "plain message"},
	}
	for _, tt := range tests {
		_, err := bw.Write([]byte(tt.input))
		require.NoError(t, err)
	}

	records := readRecords(t, dir)
	require.Len(t, records, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.wantComp, records[i]["component"], tt.input)
		assert.Equal(t, tt.wantMsg, records[i]["msg"], tt.input)
	}
}

func TestBridgeWriterStripsTimestamp(t *testing.T) {
	Shutdown()
	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir})
	defer Shutdown()

	_, _ = NewBridgeWriter("legacy").Write([]byte("15:04:05.000000 [CACHE] write failed\n"))

	r := findMsg(readRecords(t, dir), "write failed")
	require.NotNil(t, r)
	assert.Equal(t, CompCache, r["component"])
}

func TestBridgeWriterIgnoresBlankInput(t *testing.T) {
	bw := NewBridgeWriter("legacy")
	n, err := bw.Write([]byte("   \n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStripLogTimestamp(t *testing.T) {
	tests := []struct{ input, want string }{
		{"15:04:05.000000 hello", "hello"},
		{"15:04:05 hello", "hello"},
		{"no timestamp here", "no timestamp here"},
		{"12:34:56.789012 [UI] msg", "[UI] msg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripLogTimestamp(tt.input), tt.input)
	}
}
