package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/claude-sessions/claude-sessions/internal/session"
)

// chromeLines is everything but the table: header box (3), search bar,
// column headers, two separators and the status bar.
const chromeLines = 8

const (
	defaultWidth  = 80
	defaultHeight = 24
)

func pageSizeFor(height int) int {
	return max(height-chromeLines, minPageSize)
}

type column struct {
	header string
	width  int
	value  func(s session.Session, now time.Time) string
	style  *lipgloss.Style // pointer so theme switches apply
	right  bool
}

// columnsFor sizes the table columns for a terminal width. Two cells go to
// the selection indicator and four to the gaps between columns.
func columnsFor(width int) []column {
	available := width - 2 - 4
	repoW := max(available*16/100, 8)
	branchW := max(available*18/100, 8)
	const dateW, msgW = 8, 4
	promptW := max(available-repoW-branchW-dateW-msgW, 10)

	return []column{
		{header: "REPO", width: repoW, style: &RepoStyle,
			value: func(s session.Session, _ time.Time) string { return s.RepoName }},
		{header: "BRANCH", width: branchW, style: &BranchStyle,
			value: func(s session.Session, _ time.Time) string { return s.GitBranch }},
		{header: "FIRST PROMPT", width: promptW, style: &PromptStyle,
			value: func(s session.Session, _ time.Time) string { return s.FirstPrompt }},
		{header: "DATE", width: dateW, style: &DateStyle,
			value: func(s session.Session, now time.Time) string { return relativeDate(s.Modified, now) }},
		{header: "MSG", width: msgW, style: &MsgStyle, right: true,
			value: func(s session.Session, _ time.Time) string { return strconv.Itoa(s.MessageCount) }},
	}
}
