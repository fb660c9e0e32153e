package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainLines(frame string) []string {
	return strings.Split(ansi.Strip(frame), "\n")
}

func TestColumnsFor(t *testing.T) {
	cols := columnsFor(106)
	widths := make([]int, len(cols))
	total := 0
	for i, c := range cols {
		widths[i] = c.width
		total += c.width
	}
	assert.Equal(t, []int{16, 18, 54, 8, 4}, widths)
	assert.Equal(t, 100, total, "columns fill the width minus indicator and gaps")

	narrow := columnsFor(20)
	assert.Equal(t, 8, narrow[0].width)
	assert.Equal(t, 8, narrow[1].width)
	assert.Equal(t, 10, narrow[2].width)
}

func TestRenderScreenLayout(t *testing.T) {
	sessions := makeSessions(3)
	frame := RenderScreen(ScreenData{
		Visible:   sessions,
		Selected:  1,
		PageSize:  5,
		SortLabel: "Date",
		Width:     100,
		Height:    13,
		Now:       testNow,
	})
	lines := plainLines(frame)
	require.Len(t, lines, chromeLines+5)

	assert.True(t, strings.HasPrefix(lines[0], "╭─"))
	assert.Contains(t, lines[1], "CLAUDE SESSIONS")
	assert.Contains(t, lines[1], "3 sessions")
	assert.True(t, strings.HasPrefix(lines[2], "╰─"))
	assert.Equal(t, 100, ansi.StringWidth(lines[0]))

	assert.Contains(t, lines[3], "press / to search")
	assert.True(t, strings.HasSuffix(lines[3], "Sort: Date ▾"))

	for _, h := range []string{"REPO", "BRANCH", "FIRST PROMPT", "DATE", "MSG"} {
		assert.Contains(t, lines[4], h)
	}
	assert.Equal(t, strings.Repeat("─", 100), lines[5])

	assert.True(t, strings.HasPrefix(lines[6], "  repo-00"))
	assert.True(t, strings.HasPrefix(lines[7], "▸ repo-01"), lines[7])
	assert.Contains(t, lines[7], "1h ago")
	assert.Contains(t, lines[8], "task number 2")
	assert.Empty(t, lines[9], "rows past the list are blank")
	assert.Empty(t, lines[10])

	status := lines[12]
	for _, hint := range []string{"↑↓ Navigate", "Enter Launch", "/ Search", "S Sort", "R Refresh", "Q Quit"} {
		assert.Contains(t, status, hint)
	}
	assert.True(t, strings.HasSuffix(status, "pg 1/1"))
}

func TestRenderSearchAndStatus(t *testing.T) {
	frame := RenderScreen(ScreenData{
		Visible:    makeSessions(12),
		Selected:   11,
		Offset:     7,
		PageSize:   5,
		SearchMode: true,
		SearchText: "auth",
		SortLabel:  "Messages",
		Status:     "Sort: Messages",
		Width:      90,
		Now:        testNow,
	})
	lines := plainLines(frame)

	assert.Contains(t, lines[3], "Search: auth")
	assert.NotContains(t, lines[3], "press /")
	assert.True(t, strings.HasSuffix(lines[3], "Sort: Messages ▾"))
	assert.Equal(t, " Sort: Messages", lines[len(lines)-1])
	assert.True(t, strings.HasPrefix(lines[10], "▸ repo-11"))
}

func TestRenderPageCounter(t *testing.T) {
	frame := RenderScreen(ScreenData{
		Visible:  makeSessions(12),
		Selected: 11,
		Offset:   7,
		PageSize: 5,
		Width:    90,
		Now:      testNow,
	})
	lines := plainLines(frame)
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "pg 2/3"))
}

func TestRenderEmpty(t *testing.T) {
	lines := plainLines(RenderScreen(ScreenData{SortLabel: "Repo", PageSize: 3, Width: 60}))
	require.Len(t, lines, chromeLines+3)
	assert.Contains(t, lines[1], "0 sessions")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "pg 1/1"))
}

func TestGradientText(t *testing.T) {
	assert.Equal(t, "", gradientText(""))
	assert.Equal(t, "CLAUDE SESSIONS", ansi.Strip(gradientText("CLAUDE SESSIONS")))
	assert.Equal(t, "x", ansi.Strip(gradientText("x")))
}

func TestInitThemeSwitches(t *testing.T) {
	t.Cleanup(func() { InitTheme("dark") })

	InitTheme("light")
	assert.Equal(t, ThemeLight, GetCurrentTheme())
	assert.Equal(t, lightColors.Repo, RepoStyle.GetForeground())

	InitTheme("anything")
	assert.Equal(t, ThemeDark, GetCurrentTheme())
	assert.Equal(t, darkColors.Repo, RepoStyle.GetForeground())
}
