package main

import (
	"strings"

	"github.com/muesli/termenv"
)

// colorProfile picks the lipgloss color profile.
// CLAUDE_SESSIONS_COLOR overrides: truecolor, 256, 16, none.
func colorProfile(getenv func(string) string) termenv.Profile {
	switch strings.ToLower(getenv("CLAUDE_SESSIONS_COLOR")) {
	case "truecolor", "true", "24bit":
		return termenv.TrueColor
	case "256", "ansi256":
		return termenv.ANSI256
	case "16", "ansi", "basic":
		return termenv.ANSI
	case "none", "off", "ascii":
		return termenv.Ascii
	}

	if getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}

	colorTerm := getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		return termenv.TrueColor
	}

	term := getenv("TERM")
	for _, t := range []string{"256color", "xterm-direct", "alacritty", "kitty", "wezterm"} {
		if strings.Contains(term, t) {
			return termenv.TrueColor
		}
	}

	// Windows Terminal, iTerm2, JetBrains, Konsole
	for _, env := range []string{"WT_SESSION", "ITERM_SESSION_ID", "TERMINAL_EMULATOR", "KONSOLE_VERSION"} {
		if getenv(env) != "" {
			return termenv.TrueColor
		}
	}
	return termenv.ANSI256
}
