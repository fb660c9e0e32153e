package ui

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// relativeDate renders an ISO-8601 timestamp relative to now, or "" when
// the value is empty or unparseable.
func relativeDate(value string, now time.Time) string {
	if value == "" {
		return ""
	}
	var t time.Time
	var err error
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, value); err == nil {
			break
		}
	}
	if err != nil {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", d/time.Minute)
	case d < day:
		return fmt.Sprintf("%dh ago", d/time.Hour)
	case d < week:
		return fmt.Sprintf("%dd ago", d/day)
	case d < month:
		return fmt.Sprintf("%dw ago", d/week)
	case d < year:
		return fmt.Sprintf("%dmo ago", d/month)
	default:
		return fmt.Sprintf("%dy ago", d/year)
	}
}

// truncate shortens s to at most width cells, marking the cut with "..".
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 2 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "..")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(truncate(s, width), width)
}
