// Package launch resumes a Claude session, either in a new terminal tab or
// window, or in place after the browser has released the terminal.
package launch

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"al.essio.dev/pkg/shellescape"

	"github.com/claude-sessions/claude-sessions/internal/logging"
	"github.com/claude-sessions/claude-sessions/internal/platform"
	"github.com/claude-sessions/claude-sessions/internal/session"
)

var launchLog = logging.ForComponent(logging.CompLaunch)

// Method is how a session was launched.
type Method string

const (
	MethodInPlace         Method = "in-place"
	MethodWindowsTerminal Method = "windows-terminal"
	MethodTmux            Method = "tmux"
)

// OutOfProcess reports whether the browser keeps running after the launch.
func (m Method) OutOfProcess() bool {
	return m != MethodInPlace
}

// Options configures the resume command.
type Options struct {
	// Method is one of the session.Launch* values; "" means auto.
	Method string
	// Command is the claude executable.
	Command string
	// SkipPermissions adds --dangerously-skip-permissions.
	SkipPermissions bool
}

// Result describes a launch. For MethodInPlace, Cmd holds the unstarted
// resume command: the caller restores the terminal, runs it with inherited
// stdio and exits with its status.
type Result struct {
	Method Method
	Cmd    *exec.Cmd
}

// Launcher starts resume commands.
type Launcher struct {
	opts     Options
	getenv   func(string) string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error // returns once started
	run      func(*exec.Cmd) error // returns once finished
	isWSL    func() bool
}

// New creates a launcher using the real environment.
func New(opts Options) *Launcher {
	if opts.Command == "" {
		opts.Command = "claude"
	}
	if opts.Method == "" {
		opts.Method = session.LaunchAuto
	}
	return &Launcher{
		opts:     opts,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		start:    startDetached,
		run:      runCombined,
		isWSL:    platform.IsWSL,
	}
}

// Launch resumes s. A failing tab or window launch falls back to in-place.
func (l *Launcher) Launch(s session.Session) Result {
	method := l.resolve()
	log := launchLog.With(slog.String("session", s.SessionID), slog.String("method", string(method)))

	var err error
	switch method {
	case MethodWindowsTerminal:
		err = l.launchWindowsTerminal(s)
	case MethodTmux:
		err = l.launchTmux(s)
	}
	if method.OutOfProcess() {
		if err == nil {
			log.Info("launch_started")
			return Result{Method: method}
		}
		log.Warn("launch_fallback_in_place", slog.String("error", err.Error()))
	}

	log.Info("launch_in_place")
	return Result{Method: MethodInPlace, Cmd: l.inPlaceCmd(s)}
}

func (l *Launcher) resolve() Method {
	switch l.opts.Method {
	case session.LaunchInPlace:
		return MethodInPlace
	case session.LaunchWindowsTerminal:
		return MethodWindowsTerminal
	case session.LaunchTmux:
		return MethodTmux
	}
	if DetectTerminal(l.getenv) == TerminalWindowsTerminal {
		return MethodWindowsTerminal
	}
	if l.getenv("TMUX") != "" {
		return MethodTmux
	}
	return MethodInPlace
}

func (l *Launcher) resumeArgs(s session.Session) []string {
	args := []string{"--resume", s.SessionID}
	if l.opts.SkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}
	return args
}

// ResumeCommand returns a shell line that resumes s from any directory.
func (l *Launcher) ResumeCommand(s session.Session) string {
	resume := append([]string{l.opts.Command}, l.resumeArgs(s)...)
	return "cd " + shellescape.Quote(s.ProjectPath) + " && " + shellescape.QuoteCommand(resume)
}

func windowTitle(s session.Session) string {
	return fmt.Sprintf("Claude: %s@%s", s.RepoName, s.GitBranch)
}

func (l *Launcher) launchWindowsTerminal(s session.Session) error {
	wt, err := l.lookPath("wt.exe")
	if err != nil {
		return fmt.Errorf("windows terminal unavailable: %w", err)
	}
	resume := append([]string{l.opts.Command}, l.resumeArgs(s)...)

	args := []string{"new-tab", "--title", windowTitle(s)}
	if l.isWSL() {
		// the tab starts on the Windows side; hop back into the distro
		args = append(args, "wsl.exe", "--cd", s.ProjectPath, "--")
		args = append(args, resume...)
	} else {
		args = append(args, "-d", s.ProjectPath, "cmd", "/c", shellescape.QuoteCommand(resume))
	}
	return l.start(exec.Command(wt, args...))
}

func (l *Launcher) launchTmux(s session.Session) error {
	tmux, err := l.lookPath("tmux")
	if err != nil {
		return fmt.Errorf("tmux unavailable: %w", err)
	}
	resume := append([]string{l.opts.Command}, l.resumeArgs(s)...)
	return l.run(exec.Command(tmux, "new-window",
		"-n", windowTitle(s),
		"-c", s.ProjectPath,
		shellescape.QuoteCommand(resume)))
}

func (l *Launcher) inPlaceCmd(s session.Session) *exec.Cmd {
	cmd := exec.Command(l.opts.Command, l.resumeArgs(s)...)
	cmd.Dir = s.ProjectPath
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// startDetached starts cmd without tying it to the browser's lifetime.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func runCombined(cmd *exec.Cmd) error {
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, out)
	}
	return nil
}
