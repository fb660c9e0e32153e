package ui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude-sessions/claude-sessions/internal/session"
)

// SessionSource produces a full session collection. *session.Scanner is the
// production implementation.
type SessionSource interface {
	Scan(ctx context.Context) ([]session.Session, error)
}

// refreshTimeout bounds one full rescan.
const refreshTimeout = 2 * time.Minute

type refreshReason int

const (
	refreshStartup refreshReason = iota
	refreshManual
	refreshWatch
)

func (r refreshReason) String() string {
	switch r {
	case refreshStartup:
		return "startup"
	case refreshManual:
		return "manual"
	default:
		return "watch"
	}
}

type refreshDoneMsg struct {
	sessions []session.Session
	err      error
	reason   refreshReason
}

type watchChangedMsg struct{}

type themeChangedMsg struct{ dark bool }

type clearStatusMsg struct{ seq int }

type copyDoneMsg struct {
	method string
	err    error
}

// refreshCmd rescans in the background. Overlapping refreshes are not
// serialized; each delivers its own result and the last one applied wins.
func refreshCmd(ctx context.Context, src SessionSource, reason refreshReason) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()

		sessions, err := src.Scan(ctx)
		if err != nil {
			uiLog.Warn("refresh_failed",
				slog.String("reason", reason.String()),
				slog.String("error", err.Error()))
		} else {
			uiLog.Debug("refresh_done",
				slog.String("reason", reason.String()),
				slog.Int("sessions", len(sessions)),
				slog.Duration("elapsed", time.Since(start)))
		}
		return refreshDoneMsg{sessions: sessions, err: err, reason: reason}
	}
}

func writeCacheCmd(cache *session.Cache, sessions []session.Session) tea.Cmd {
	if cache == nil {
		return nil
	}
	return func() tea.Msg {
		cache.Write(sessions)
		return nil
	}
}

// listenForChanges waits for the next watcher signal
func listenForChanges(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return watchChangedMsg{}
	}
}

func listenForTheme(ch <-chan bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		isDark, ok := <-ch
		if !ok {
			return nil
		}
		return themeChangedMsg{dark: isDark}
	}
}
