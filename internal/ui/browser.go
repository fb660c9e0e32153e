// Package ui is the interactive session browser.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude-sessions/claude-sessions/internal/launch"
	"github.com/claude-sessions/claude-sessions/internal/logging"
	"github.com/claude-sessions/claude-sessions/internal/session"
)

var uiLog = logging.ForComponent(logging.CompUI)

// statusDuration is how long a transient status stays on screen.
const statusDuration = 2 * time.Second

// Launcher resumes a session. *launch.Launcher is the production implementation.
type Launcher interface {
	Launch(s session.Session) launch.Result
	ResumeCommand(s session.Session) string
}

// Clipboard copies text, reporting the method used.
type Clipboard interface {
	Copy(text string) (string, error)
}

// Options wires the browser's collaborators.
type Options struct {
	Source   SessionSource
	Cache    *session.Cache // nil disables persistence
	Launcher Launcher

	// Clipboard enables copying the resume command; nil disables it.
	Clipboard Clipboard

	// Cached is shown immediately while the first scan runs.
	Cached []session.Session

	// Changes triggers a silent rescan per signal (projects watcher).
	Changes <-chan struct{}

	// ThemeChanges switches the palette when the OS theme flips.
	ThemeChanges <-chan bool

	// Width and Height are the initial terminal size, if known.
	Width  int
	Height int

	// Notice is flashed once at startup (config errors, watch warnings).
	Notice string

	// Now is the clock for relative dates; nil means time.Now.
	Now func() time.Time
}

// Browser is the tea.Model driving BrowserState. All state changes happen
// on the bubbletea event loop; scans and cache writes run as commands.
type Browser struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options
	state  *BrowserState

	width   int
	height  int
	running bool

	hadCache bool
	pending  *exec.Cmd
}

// NewBrowser creates the model. Cached sessions, if any, are visible before
// the first scan completes.
func NewBrowser(opts Options) *Browser {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Browser{
		ctx:     ctx,
		cancel:  cancel,
		opts:    opts,
		state:   NewBrowserState(pageSizeFor(opts.Height)),
		width:   opts.Width,
		height:  opts.Height,
		running: true,
	}
	if len(opts.Cached) > 0 {
		b.hadCache = true
		b.state.SetSessions(opts.Cached)
	}
	return b
}

// State exposes the underlying state machine.
func (b *Browser) State() *BrowserState {
	return b.state
}

// PendingLaunch returns the in-place resume command chosen before the
// browser quit, or nil when the user simply quit.
func (b *Browser) PendingLaunch() *exec.Cmd {
	return b.pending
}

// Init starts the initial scan and the change listeners.
func (b *Browser) Init() tea.Cmd {
	cmds := []tea.Cmd{
		refreshCmd(b.ctx, b.opts.Source, refreshStartup),
		listenForChanges(b.opts.Changes),
		listenForTheme(b.opts.ThemeChanges),
	}
	if b.opts.Notice != "" {
		cmds = append(cmds, b.flash(b.opts.Notice))
	}
	return tea.Batch(cmds...)
}

// Update handles one event.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.state.SetPageSize(pageSizeFor(msg.Height))
		return b, nil

	case tea.KeyMsg:
		if !b.running {
			return b, nil
		}
		action, input := ResolveAction(msg, b.state.SearchMode)
		return b, b.handleAction(action, input)

	case refreshDoneMsg:
		return b, b.applyRefresh(msg)

	case watchChangedMsg:
		if !b.running {
			return b, nil
		}
		return b, tea.Batch(
			refreshCmd(b.ctx, b.opts.Source, refreshWatch),
			listenForChanges(b.opts.Changes),
		)

	case themeChangedMsg:
		theme := string(ThemeLight)
		if msg.dark {
			theme = string(ThemeDark)
		}
		InitTheme(theme)
		return b, listenForTheme(b.opts.ThemeChanges)

	case copyDoneMsg:
		if !b.running {
			return b, nil
		}
		if msg.err != nil {
			return b, b.flash("Copy failed: " + msg.err.Error())
		}
		return b, b.flash("Copied resume command (" + msg.method + ")")

	case clearStatusMsg:
		if b.running {
			b.state.ClearStatus(msg.seq)
		}
		return b, nil
	}
	return b, nil
}

func (b *Browser) handleAction(action Action, input []rune) tea.Cmd {
	switch action {
	case ActionNone:
		return nil

	case ActionQuit:
		return b.quit()

	case ActionRefresh:
		return tea.Batch(b.flash("Refreshing..."), refreshCmd(b.ctx, b.opts.Source, refreshManual))

	case ActionLaunch:
		return b.launchSelected()

	case ActionCopy:
		return b.copySelected()

	case ActionCycleSort:
		b.state.Apply(action, input)
		return b.flash("Sort: " + b.state.SortMode.Label())
	}

	b.state.Apply(action, input)
	return nil
}

func (b *Browser) launchSelected() tea.Cmd {
	selected, ok := b.state.Current()
	if !ok || b.opts.Launcher == nil {
		return nil
	}
	res := b.opts.Launcher.Launch(selected)
	switch res.Method {
	case launch.MethodWindowsTerminal:
		return b.flash("Launched in new tab: " + selected.RepoName)
	case launch.MethodTmux:
		return b.flash("Launched in new window: " + selected.RepoName)
	}
	b.pending = res.Cmd
	return b.quit()
}

func (b *Browser) copySelected() tea.Cmd {
	selected, ok := b.state.Current()
	if !ok || b.opts.Launcher == nil || b.opts.Clipboard == nil {
		return nil
	}
	text := b.opts.Launcher.ResumeCommand(selected)
	clip := b.opts.Clipboard
	return func() tea.Msg {
		method, err := clip.Copy(text)
		return copyDoneMsg{method: method, err: err}
	}
}

func (b *Browser) quit() tea.Cmd {
	b.running = false
	b.cancel()
	return tea.Quit
}

func (b *Browser) applyRefresh(msg refreshDoneMsg) tea.Cmd {
	if !b.running {
		return nil
	}
	if msg.err != nil {
		if msg.reason == refreshStartup {
			return b.flash("Error loading sessions: " + msg.err.Error())
		}
		return b.flash("Refresh failed: " + msg.err.Error())
	}

	b.state.SetSessions(msg.sessions)
	cmds := []tea.Cmd{writeCacheCmd(b.opts.Cache, msg.sessions)}
	switch {
	case msg.reason == refreshManual,
		msg.reason == refreshStartup && !b.hadCache:
		cmds = append(cmds, b.flash(fmt.Sprintf("Loaded %d sessions", len(msg.sessions))))
	}
	uiLog.Debug("sessions_replaced",
		slog.String("reason", msg.reason.String()),
		slog.Int("sessions", len(msg.sessions)))
	return tea.Batch(cmds...)
}

// flash shows a transient status and schedules its removal.
func (b *Browser) flash(status string) tea.Cmd {
	seq := b.state.Flash(status)
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// View renders the current frame.
func (b *Browser) View() string {
	if !b.running {
		return ""
	}
	s := b.state
	return RenderScreen(ScreenData{
		Visible:    s.Visible(),
		Selected:   s.Selected,
		Offset:     s.Offset,
		PageSize:   s.PageSize(),
		SearchMode: s.SearchMode,
		SearchText: s.SearchText,
		SortLabel:  s.SortMode.Label(),
		Status:     s.Status,
		Width:      b.width,
		Height:     b.height,
		Now:        b.opts.Now(),
	})
}
