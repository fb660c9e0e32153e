// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/claude-sessions/claude-sessions/internal/platform"
)

// ErrEmpty is returned when there is nothing to copy.
var ErrEmpty = errors.New("no content to copy")

// Copier copies through the first available native tool and falls back to
// an OSC 52 escape sequence written to the controlling terminal.
type Copier struct {
	platform platform.Platform
	getenv   func(string) string
	lookPath func(string) (string, error)
	run      func(name string, args []string, text string) error
	tty      func() (io.WriteCloser, error)
}

// New returns a Copier for the current platform.
func New() *Copier {
	return &Copier{
		platform: platform.Detect(),
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		run:      runClipCmd,
		tty:      openTTY,
	}
}

// Copy copies text and returns the method used ("pbcopy", "xclip", "osc52", ...).
func (c *Copier) Copy(text string) (string, error) {
	if text == "" {
		return "", ErrEmpty
	}
	method, err := c.copyNative(text)
	if err == nil {
		return method, nil
	}

	w, ttyErr := c.tty()
	if ttyErr != nil {
		return "", fmt.Errorf("clipboard unavailable: %w (osc52: %v)", err, ttyErr)
	}
	defer w.Close()
	if err := writeOSC52(w, text, c.getenv("TMUX") != ""); err != nil {
		return "", fmt.Errorf("osc52: %w", err)
	}
	return "osc52", nil
}

func (c *Copier) copyNative(text string) (string, error) {
	switch c.platform {
	case platform.PlatformMacOS:
		return "pbcopy", c.run("pbcopy", nil, text)

	case platform.PlatformWSL1, platform.PlatformWSL2, platform.PlatformWindows:
		return "clip.exe", c.run("clip.exe", nil, text)

	case platform.PlatformLinux:
		// Wayland takes priority over X11
		if c.getenv("WAYLAND_DISPLAY") != "" {
			if path, err := c.lookPath("wl-copy"); err == nil {
				return "wl-copy", c.run(path, nil, text)
			}
		}
		if path, err := c.lookPath("xclip"); err == nil {
			return "xclip", c.run(path, []string{"-selection", "clipboard"}, text)
		}
		if path, err := c.lookPath("xsel"); err == nil {
			return "xsel", c.run(path, []string{"--clipboard", "--input"}, text)
		}
		return "", errors.New("no clipboard command found")
	}
	return "", fmt.Errorf("unsupported platform: %s", c.platform)
}

func runClipCmd(name string, args []string, text string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// openTTY bypasses stdout, which the browser owns.
func openTTY() (io.WriteCloser, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}

// writeOSC52 emits the sequence, wrapped for tmux passthrough when inTmux.
func writeOSC52(w io.Writer, text string, inTmux bool) error {
	seq := osc52.New(text)
	if inTmux {
		seq = seq.Tmux()
	}
	_, err := seq.WriteTo(w)
	return err
}
