package launch

import "runtime"

// Terminal identifies the terminal emulator the browser runs in.
type Terminal string

const (
	TerminalGeneric         Terminal = "generic"
	TerminalWindowsTerminal Terminal = "windows-terminal"
	TerminalITerm           Terminal = "iterm"
	TerminalAppleTerminal   Terminal = "apple-terminal"
	TerminalKitty           Terminal = "kitty"
	TerminalAlacritty       Terminal = "alacritty"
	TerminalWezTerm         Terminal = "wezterm"
	TerminalTmux            Terminal = "tmux"
	TerminalWindowsCmd      Terminal = "windows-cmd"
)

// DetectTerminal inspects the environment through getenv. The first match
// wins, so Windows Terminal is reported even when WSL forwards WT_SESSION.
func DetectTerminal(getenv func(string) string) Terminal {
	switch {
	case getenv("WT_SESSION") != "":
		return TerminalWindowsTerminal
	case getenv("TERM_PROGRAM") == "iTerm.app":
		return TerminalITerm
	case getenv("TERM_PROGRAM") == "Apple_Terminal":
		return TerminalAppleTerminal
	case getenv("KITTY_PID") != "":
		return TerminalKitty
	case getenv("ALACRITTY_WINDOW_ID") != "":
		return TerminalAlacritty
	case getenv("WEZTERM_PANE") != "":
		return TerminalWezTerm
	case getenv("TMUX") != "":
		return TerminalTmux
	case runtime.GOOS == "windows":
		return TerminalWindowsCmd
	default:
		return TerminalGeneric
	}
}
