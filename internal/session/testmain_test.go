package session

import (
	"os"
	"testing"
)

// TestMain points the app directory at a throwaway location so no test
// reads or writes the real ~/.claude-sessions.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "claude-sessions-test-")
	if err != nil {
		panic(err)
	}
	os.Setenv(AppDirEnv, dir)
	os.Unsetenv("CLAUDE_CONFIG_DIR")

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}
