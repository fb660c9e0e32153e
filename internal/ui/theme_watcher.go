package ui

import (
	"context"
	"log/slog"
	"sync"

	dark "github.com/thiagokokada/dark-mode-go"
)

// ThemeWatcher follows the OS dark mode setting for theme = "system".
type ThemeWatcher struct {
	changeCh  chan bool // true=dark
	closeCh   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewThemeWatcher starts watching. Returns nil when the platform offers no
// notifications; the theme then stays as resolved at startup.
func NewThemeWatcher(parent context.Context) *ThemeWatcher {
	ctx, cancel := context.WithCancel(parent)
	events, errs, err := dark.WatchDarkMode(ctx)
	if err != nil {
		cancel()
		uiLog.Debug("theme_watch_unavailable", slog.String("error", err.Error()))
		return nil
	}

	tw := &ThemeWatcher{
		changeCh: make(chan bool, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go tw.loop(cancel, events, errs)
	return tw
}

func (tw *ThemeWatcher) loop(cancel context.CancelFunc, events <-chan bool, errs <-chan error) {
	defer close(tw.done)
	defer cancel()
	for {
		select {
		case <-tw.closeCh:
			return
		case isDark, ok := <-events:
			if !ok {
				return
			}
			// latest value wins
			select {
			case <-tw.changeCh:
			default:
			}
			tw.changeCh <- isDark
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			uiLog.Warn("theme_watch_error", slog.String("error", err.Error()))
		}
	}
}

// ChangeChannel delivers the new dark-mode state after each OS change.
func (tw *ThemeWatcher) ChangeChannel() <-chan bool {
	if tw == nil {
		return nil
	}
	return tw.changeCh
}

// Close stops the watcher. Safe to call multiple times and on nil.
func (tw *ThemeWatcher) Close() {
	if tw == nil {
		return
	}
	tw.closeOnce.Do(func() {
		close(tw.closeCh)
		<-tw.done
	})
}
