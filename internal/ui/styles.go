package ui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var currentTheme = ThemeDark

type palette struct {
	Repo, Branch, Prompt, Date, Msg lipgloss.Color
	Text, Dim, Accent, Status       lipgloss.Color
	SelectedBg, SelectedFg          lipgloss.Color
	Box, Badge                      lipgloss.Color
}

// Dark theme, tailwind-inspired
var darkColors = palette{
	Repo:       lipgloss.Color("#60a5fa"),
	Branch:     lipgloss.Color("#34d399"),
	Prompt:     lipgloss.Color("#9ca3af"),
	Date:       lipgloss.Color("#fbbf24"),
	Msg:        lipgloss.Color("#f472b6"),
	Text:       lipgloss.Color("#f9fafb"),
	Dim:        lipgloss.Color("#6b7280"),
	Accent:     lipgloss.Color("#a855f7"),
	Status:     lipgloss.Color("#fbbf24"),
	SelectedBg: lipgloss.Color("#2e1065"),
	SelectedFg: lipgloss.Color("#ffffff"),
	Box:        lipgloss.Color("#4c1d95"),
	Badge:      lipgloss.Color("#7c3aed"),
}

// Light theme: same hues, darker shades for contrast on a light background
var lightColors = palette{
	Repo:       lipgloss.Color("#2563eb"),
	Branch:     lipgloss.Color("#059669"),
	Prompt:     lipgloss.Color("#4b5563"),
	Date:       lipgloss.Color("#b45309"),
	Msg:        lipgloss.Color("#db2777"),
	Text:       lipgloss.Color("#111827"),
	Dim:        lipgloss.Color("#6b7280"),
	Accent:     lipgloss.Color("#7c3aed"),
	Status:     lipgloss.Color("#b45309"),
	SelectedBg: lipgloss.Color("#ede9fe"),
	SelectedFg: lipgloss.Color("#1e1b4b"),
	Box:        lipgloss.Color("#6d28d9"),
	Badge:      lipgloss.Color("#7c3aed"),
}

// gradientStops color the title, indigo through fuchsia.
var gradientStops = [][3]int{
	{99, 102, 241},
	{124, 58, 237},
	{168, 85, 247},
	{192, 38, 211},
	{217, 70, 239},
}

// themeMu guards the style variables during live theme switches.
var themeMu sync.RWMutex

var (
	RepoStyle   lipgloss.Style
	BranchStyle lipgloss.Style
	PromptStyle lipgloss.Style
	DateStyle   lipgloss.Style
	MsgStyle    lipgloss.Style

	HeaderLabelStyle lipgloss.Style
	DimStyle         lipgloss.Style
	SeparatorStyle   lipgloss.Style
	BoxStyle         lipgloss.Style
	BadgeStyle       lipgloss.Style

	SelectedRowStyle lipgloss.Style
	IndicatorStyle   lipgloss.Style

	SearchPromptStyle lipgloss.Style
	SearchTextStyle   lipgloss.Style
	SearchCursorStyle lipgloss.Style

	KeyStyle     lipgloss.Style
	KeyDescStyle lipgloss.Style
	StatusStyle  lipgloss.Style
)

// InitTheme sets the active palette. Anything other than "light" is dark.
func InitTheme(theme string) {
	themeMu.Lock()
	defer themeMu.Unlock()

	c := darkColors
	currentTheme = ThemeDark
	if theme == string(ThemeLight) {
		c = lightColors
		currentTheme = ThemeLight
	}

	RepoStyle = lipgloss.NewStyle().Foreground(c.Repo)
	BranchStyle = lipgloss.NewStyle().Foreground(c.Branch)
	PromptStyle = lipgloss.NewStyle().Foreground(c.Prompt)
	DateStyle = lipgloss.NewStyle().Foreground(c.Date)
	MsgStyle = lipgloss.NewStyle().Foreground(c.Msg)

	HeaderLabelStyle = lipgloss.NewStyle().Foreground(c.Text).Bold(true)
	DimStyle = lipgloss.NewStyle().Foreground(c.Dim)
	SeparatorStyle = lipgloss.NewStyle().Faint(true)
	BoxStyle = lipgloss.NewStyle().Foreground(c.Box)
	BadgeStyle = lipgloss.NewStyle().Foreground(c.Badge)

	SelectedRowStyle = lipgloss.NewStyle().Background(c.SelectedBg).Foreground(c.SelectedFg).Bold(true)
	IndicatorStyle = lipgloss.NewStyle().Background(c.SelectedBg).Foreground(c.Accent).Bold(true)

	SearchPromptStyle = lipgloss.NewStyle().Foreground(c.Status)
	SearchTextStyle = lipgloss.NewStyle().Foreground(c.Text)
	SearchCursorStyle = lipgloss.NewStyle().Foreground(c.Status).Underline(true)

	KeyStyle = lipgloss.NewStyle().Foreground(c.Accent).Bold(true)
	KeyDescStyle = lipgloss.NewStyle().Foreground(c.Dim)
	StatusStyle = lipgloss.NewStyle().Foreground(c.Status)
}

// GetCurrentTheme returns the active theme
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

func init() {
	InitTheme(string(ThemeDark))
}

// gradientText colors each rune of text along gradientStops.
func gradientText(text string) string {
	runes := []rune(text)
	switch len(runes) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(rgb(gradientStops[0])).Render(text)
	}

	segments := len(gradientStops) - 1
	var out []byte
	for i, r := range runes {
		t := float64(i) / float64(len(runes)-1)
		seg := min(int(t*float64(segments)), segments-1)
		local := t*float64(segments) - float64(seg)
		c0, c1 := gradientStops[seg], gradientStops[seg+1]
		var c [3]int
		for k := range c {
			c[k] = int(float64(c0[k]) + float64(c1[k]-c0[k])*local + 0.5)
		}
		out = append(out, lipgloss.NewStyle().Foreground(rgb(c)).Bold(true).Render(string(r))...)
	}
	return string(out)
}

func rgb(c [3]int) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
