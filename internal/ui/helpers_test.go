package ui

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude-sessions/claude-sessions/internal/launch"
	"github.com/claude-sessions/claude-sessions/internal/session"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// makeSessions returns n sessions, newest first, with distinct repos.
func makeSessions(n int) []session.Session {
	out := make([]session.Session, n)
	for i := range out {
		ts := testNow.Add(-time.Duration(i) * time.Hour).Format("2006-01-02T15:04:05.000Z")
		out[i] = session.Session{
			SessionID:    uuid.NewString(),
			ProjectPath:  fmt.Sprintf("/work/repo-%02d", i),
			RepoName:     fmt.Sprintf("repo-%02d", i),
			GitBranch:    "main",
			FirstPrompt:  fmt.Sprintf("task number %d", i),
			MessageCount: i,
			Created:      ts,
			Modified:     ts,
		}
	}
	return out
}

type fakeSource struct {
	mu       sync.Mutex
	sessions []session.Session
	err      error
	calls    int
}

func (f *fakeSource) Scan(ctx context.Context) ([]session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]session.Session(nil), f.sessions...), nil
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(text string) (string, error) {
	f.copied = append(f.copied, text)
	return "osc52", f.err
}

type fakeLauncher struct {
	method   launch.Method
	launched []session.Session
}

func (f *fakeLauncher) Launch(s session.Session) launch.Result {
	f.launched = append(f.launched, s)
	if f.method.OutOfProcess() {
		return launch.Result{Method: f.method}
	}
	return launch.Result{Method: launch.MethodInPlace, Cmd: exec.Command("claude", "--resume", s.SessionID)}
}

func (f *fakeLauncher) ResumeCommand(s session.Session) string {
	return "claude --resume " + s.SessionID
}
