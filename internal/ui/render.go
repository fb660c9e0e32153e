package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/claude-sessions/claude-sessions/internal/session"
)

const (
	appTitle     = "CLAUDE SESSIONS"
	searchIcon   = " 🔍 Search: "
	searchIdle   = searchIcon + "press / to search"
	rowIndicator = "▸"
)

// ScreenData is everything the renderer needs for one frame.
type ScreenData struct {
	Visible    []session.Session
	Selected   int
	Offset     int
	PageSize   int
	SearchMode bool
	SearchText string
	SortLabel  string
	Status     string
	Width      int
	Height     int
	Now        time.Time
}

// RenderScreen draws a full frame: exactly chromeLines+PageSize lines.
func RenderScreen(d ScreenData) string {
	themeMu.RLock()
	defer themeMu.RUnlock()

	if d.Width <= 0 {
		d.Width = defaultWidth
	}
	if d.PageSize <= 0 {
		d.PageSize = pageSizeFor(defaultHeight)
	}
	if d.Now.IsZero() {
		d.Now = time.Now()
	}
	cols := columnsFor(d.Width)

	lines := make([]string, 0, chromeLines+d.PageSize)
	lines = append(lines, renderHeader(d.Width, len(d.Visible))...)
	lines = append(lines, renderSearchBar(d.SearchMode, d.SearchText, d.SortLabel, d.Width))
	lines = append(lines, "  "+renderColumnHeaders(cols))
	lines = append(lines, renderSeparator(d.Width))
	for i := range d.PageSize {
		idx := d.Offset + i
		if idx >= len(d.Visible) {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, renderRow(d.Visible[idx], cols, idx == d.Selected, d.Now))
	}
	lines = append(lines, renderSeparator(d.Width))

	total := max((len(d.Visible)+d.PageSize-1)/d.PageSize, 1)
	lines = append(lines, renderStatusBar(d.Width, d.Offset/d.PageSize+1, total, d.Status))
	return strings.Join(lines, "\n")
}

func renderHeader(width, count int) []string {
	badge := fmt.Sprintf("%d sessions", count)
	inner := max(width-2, len(appTitle)+len(badge)+6)
	padding := max(inner-len(appTitle)-len(badge)-4, 0)

	rule := strings.Repeat("─", inner)
	return []string{
		BoxStyle.Render("╭" + rule + "╮"),
		BoxStyle.Render("│") + "  " + gradientText(appTitle) + strings.Repeat(" ", padding) +
			BadgeStyle.Render(badge) + "  " + BoxStyle.Render("│"),
		BoxStyle.Render("╰" + rule + "╯"),
	}
}

func renderSearchBar(searchMode bool, text, sortLabel string, width int) string {
	sortStr := DimStyle.Render("Sort: " + sortLabel + " ▾")

	var left string
	if searchMode {
		left = SearchPromptStyle.Render(searchIcon) + SearchTextStyle.Render(text) + SearchCursorStyle.Render(" ")
	} else {
		left = DimStyle.Render(searchIdle)
	}
	gap := max(width-ansi.StringWidth(left)-ansi.StringWidth(sortStr)-2, 1)
	return left + strings.Repeat(" ", gap) + sortStr
}

func renderColumnHeaders(cols []column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = HeaderLabelStyle.Render(padRight(c.header, c.width))
	}
	return strings.Join(parts, " ")
}

func renderSeparator(width int) string {
	return SeparatorStyle.Render(strings.Repeat("─", max(width, 0)))
}

func renderRow(s session.Session, cols []column, selected bool, now time.Time) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		v := c.value(s, now)
		if c.right {
			v = padLeft(v, c.width)
		} else {
			v = padRight(v, c.width)
		}
		if !selected {
			v = c.style.Render(v)
		}
		parts[i] = v
	}

	if selected {
		return IndicatorStyle.Render(rowIndicator) + SelectedRowStyle.Render(" "+strings.Join(parts, " "))
	}
	return "  " + strings.Join(parts, " ")
}

func renderStatusBar(width, page, total int, status string) string {
	if status != "" {
		return " " + StatusStyle.Render(status)
	}

	help := keys.ShortHelp()
	hints := make([]string, len(help))
	for i, b := range help {
		h := b.Help()
		hints[i] = KeyStyle.Render(h.Key) + KeyDescStyle.Render(" "+h.Desc)
	}
	left := " " + strings.Join(hints, KeyDescStyle.Render("  "))
	pageStr := KeyDescStyle.Render(fmt.Sprintf("pg %d/%d", page, total))

	gap := max(width-ansi.StringWidth(left)-ansi.StringWidth(pageStr)-1, 1)
	return left + strings.Repeat(" ", gap) + pageStr
}
