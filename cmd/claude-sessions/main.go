package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/claude-sessions/claude-sessions/internal/clipboard"
	"github.com/claude-sessions/claude-sessions/internal/launch"
	"github.com/claude-sessions/claude-sessions/internal/logging"
	"github.com/claude-sessions/claude-sessions/internal/platform"
	"github.com/claude-sessions/claude-sessions/internal/session"
	"github.com/claude-sessions/claude-sessions/internal/ui"
)

var mainLog = logging.ForComponent(logging.CompUI)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup; main only converts its result to an exit
// status.
func run() int {
	lipgloss.SetColorProfile(colorProfile(os.Getenv))

	_, cfgErr := session.LoadUserConfig()

	appDir, _ := session.GetAppDir()
	logging.Init(loggingConfig(appDir, os.Getenv("CLAUDE_SESSIONS_DEBUG") != ""))
	defer logging.Shutdown()

	log.SetFlags(0)
	log.SetOutput(logging.NewBridgeWriter(logging.CompUI))

	mainLog.Info("startup",
		slog.Int("pid", os.Getpid()),
		slog.String("platform", platform.Detect().String()))
	if cfgErr != nil {
		mainLog.Warn("config_invalid", slog.String("error", cfgErr.Error()))
	}
	startDumpHandler(appDir)

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fail(errors.New("claude-sessions needs an interactive terminal"))
	}
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 0, 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ui.InitTheme(session.ResolveTheme())
	var themeChanges <-chan bool
	if session.GetTheme() == "system" {
		tw := ui.NewThemeWatcher(ctx)
		defer tw.Close()
		themeChanges = tw.ChangeChannel()
	}

	root := session.GetProjectsDir()
	notice := ""
	if cfgErr != nil {
		notice = "Config error, using defaults: " + cfgErr.Error()
	}

	var changes <-chan struct{}
	if ws := session.GetWatchSettings(); ws.GetEnabled() {
		w, err := session.NewProjectsWatcher(root, ws.Options())
		if err != nil {
			mainLog.Info("watch_disabled", slog.String("error", err.Error()))
		} else {
			defer w.Close()
			changes = w.ChangeChannel()
			if warning := w.Warning(); warning != "" && notice == "" {
				notice = warning
			}
		}
	}

	cache := openCache()
	claude := session.GetClaudeSettings()
	browser := ui.NewBrowser(ui.Options{
		Source: session.NewScanner(root),
		Cache:  cache,
		Launcher: launch.New(launch.Options{
			Method:          session.GetLaunchMethod(),
			Command:         claude.GetCommand(),
			SkipPermissions: claude.GetSkipPermissions(),
		}),
		Clipboard:    clipboard.New(),
		Cached:       cache.Read(),
		Changes:      changes,
		ThemeChanges: themeChanges,
		Width:        width,
		Height:       height,
		Notice:       notice,
	})

	p := tea.NewProgram(browser, tea.WithAltScreen(), tea.WithoutSignalHandler())

	// Interrupts take the same path as q: the program restores the terminal
	// before Run returns.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)
	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		mainLog.Info("signal_received", slog.String("signal", sig.String()))
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		restoreTerminal(os.Stdout)
		return fail(fmt.Errorf("browser: %w", err))
	}

	if cmd := browser.PendingLaunch(); cmd != nil {
		return runInPlace(cmd)
	}
	return 0
}

func loggingConfig(appDir string, debug bool) logging.Config {
	ls := session.GetLogSettings()
	return logging.Config{
		Debug:                 debug,
		LogDir:                appDir,
		Level:                 ls.DebugLevel,
		Format:                ls.DebugFormat,
		MaxSizeMB:             ls.DebugMaxMB,
		MaxBackups:            ls.DebugBackups,
		MaxAgeDays:            ls.DebugRetentionDays,
		Compress:              ls.DebugCompress,
		RingBufferSize:        ls.RingBufferMB * 1024 * 1024,
		AggregateIntervalSecs: ls.AggregateIntervalS,
		PprofEnabled:          ls.PprofEnabled,
		PprofAddr:             ls.PprofAddr,
	}
}

// openCache builds the cache from the [cache] section.
func openCache() *session.Cache {
	cs := session.GetCacheSettings()
	return session.NewCache(session.GetCachePath(), cs.GetTTL())
}

// runInPlace resumes the session in this terminal and forwards its status.
func runInPlace(cmd *exec.Cmd) int {
	mainLog.Info("resume_in_place", slog.String("dir", cmd.Dir))
	code, err := exitCode(cmd.Run())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to launch %s: %v\n", cmd.Path, err)
	}
	return code
}

// exitCode maps the result of running a command to this process's status:
// the child's own code when it exited, 0 when a signal ended it, 1 when it
// could not be started.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// killed by a signal: no code to forward
		return 0, nil
	}
	return 1, err
}

// restoreTerminal undoes alt screen and cursor hiding after a failed run.
func restoreTerminal(w io.Writer) {
	out := termenv.NewOutput(w)
	out.ShowCursor()
	out.ExitAltScreen()
}

func fail(err error) int {
	mainLog.Error("startup_failed", slog.String("error", err.Error()))
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
