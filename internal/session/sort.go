package session

import (
	"cmp"
	"slices"
	"strings"
)

// SortMode selects the ordering of the session list.
type SortMode int

const (
	SortDate SortMode = iota
	SortMessages
	SortRepo
	SortBranch

	sortModeCount
)

var sortModeNames = [sortModeCount]string{"date", "messages", "repo", "branch"}
var sortModeLabels = [sortModeCount]string{"Date", "Messages", "Repo", "Branch"}

// Next returns the following mode, wrapping after SortBranch.
func (m SortMode) Next() SortMode {
	return (m + 1) % sortModeCount
}

// Label is the capitalized name shown in the UI.
func (m SortMode) Label() string {
	if m < 0 || m >= sortModeCount {
		return sortModeLabels[SortDate]
	}
	return sortModeLabels[m]
}

func (m SortMode) String() string {
	if m < 0 || m >= sortModeCount {
		return sortModeNames[SortDate]
	}
	return sortModeNames[m]
}

// Sort returns a sorted copy of sessions; the input is not modified.
// Equal keys keep their input order.
func Sort(sessions []Session, mode SortMode) []Session {
	sorted := slices.Clone(sessions)
	switch mode {
	case SortMessages:
		slices.SortStableFunc(sorted, func(a, b Session) int {
			return cmp.Compare(b.MessageCount, a.MessageCount)
		})
	case SortRepo:
		slices.SortStableFunc(sorted, func(a, b Session) int {
			return strings.Compare(a.RepoName, b.RepoName)
		})
	case SortBranch:
		slices.SortStableFunc(sorted, func(a, b Session) int {
			return strings.Compare(a.GitBranch, b.GitBranch)
		})
	default:
		slices.SortStableFunc(sorted, func(a, b Session) int {
			return strings.Compare(dateKey(b), dateKey(a))
		})
	}
	return sorted
}

func dateKey(s Session) string {
	if s.Modified != "" {
		return s.Modified
	}
	return s.Created
}
