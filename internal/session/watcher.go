package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/claude-sessions/claude-sessions/internal/logging"
	"github.com/claude-sessions/claude-sessions/internal/platform"
)

var watchLog = logging.ForComponent(logging.CompWatch)

const (
	DefaultWatchDebounce    = 500 * time.Millisecond
	DefaultWatchMinInterval = 5 * time.Second
)

// WatchOptions tunes how change bursts are turned into refresh signals.
type WatchOptions struct {
	// Debounce waits this long after the last event before signalling.
	Debounce time.Duration
	// MinInterval is the minimum gap between two signals.
	MinInterval time.Duration
}

// ProjectsWatcher signals when transcripts or indexes under the projects
// directory change. Only the root and its immediate subdirectories are
// watched; transcripts never live deeper and tool output directories below
// them would cost one descriptor each.
type ProjectsWatcher struct {
	root     string
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	debounce time.Duration

	changeCh  chan struct{} // buffered, non-blocking send
	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	timerMu sync.Mutex
	timer   *time.Timer
}

// NewProjectsWatcher starts watching root. It fails when root cannot be
// watched (usually because it does not exist yet).
func NewProjectsWatcher(root string, opts WatchOptions) (*ProjectsWatcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultWatchDebounce
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultWatchMinInterval
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(root); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	entries, _ := os.ReadDir(root)
	for _, e := range entries {
		if e.IsDir() {
			_ = w.Add(filepath.Join(root, e.Name()))
		}
	}

	pw := &ProjectsWatcher{
		root:     filepath.Clean(root),
		watcher:  w,
		limiter:  rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		debounce: opts.Debounce,
		changeCh: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
	}
	pw.wg.Add(1)
	go pw.loop()

	watchLog.Debug("watcher_started", slog.String("root", root), slog.Int("dirs", len(w.WatchList())))
	return pw, nil
}

func (pw *ProjectsWatcher) loop() {
	defer pw.wg.Done()
	for {
		select {
		case <-pw.closeCh:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			pw.handle(event)
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			watchLog.Warn("watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (pw *ProjectsWatcher) handle(event fsnotify.Event) {
	// A new project directory: start watching it and rescan.
	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == pw.root {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := pw.watcher.Add(event.Name); err != nil {
				watchLog.Debug("watcher_add_failed", slog.String("dir", event.Name), slog.String("error", err.Error()))
			}
			pw.schedule()
			return
		}
	}
	if !isSessionFile(event.Name) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	logging.Aggregate(logging.CompWatch, "session_file_event")
	pw.schedule()
}

func isSessionFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, logExt) || base == IndexFileName
}

// schedule restarts the debounce timer.
func (pw *ProjectsWatcher) schedule() {
	pw.timerMu.Lock()
	defer pw.timerMu.Unlock()
	if pw.timer != nil {
		pw.timer.Stop()
	}
	pw.timer = time.AfterFunc(pw.debounce, pw.fire)
}

// fire sends a signal, or postpones it until the limiter allows one.
func (pw *ProjectsWatcher) fire() {
	select {
	case <-pw.closeCh:
		return
	default:
	}

	r := pw.limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		pw.timerMu.Lock()
		pw.timer = time.AfterFunc(delay, pw.fire)
		pw.timerMu.Unlock()
		return
	}

	select {
	case pw.changeCh <- struct{}{}:
		watchLog.Debug("watcher_signal")
	default:
	}
}

// ChangeChannel receives one value per settled burst of changes.
func (pw *ProjectsWatcher) ChangeChannel() <-chan struct{} {
	return pw.changeCh
}

// Warning explains why change events may be missing on this filesystem,
// or returns "".
func (pw *ProjectsWatcher) Warning() string {
	return platform.CheckFsnotifySupport(pw.root)
}

// Close stops the watcher and waits for its goroutine. Safe to call multiple times.
func (pw *ProjectsWatcher) Close() error {
	var err error
	pw.closeOnce.Do(func() {
		close(pw.closeCh)
		pw.timerMu.Lock()
		if pw.timer != nil {
			pw.timer.Stop()
		}
		pw.timerMu.Unlock()
		err = pw.watcher.Close()
		pw.wg.Wait()
	})
	return err
}
