package ui

import (
	"github.com/claude-sessions/claude-sessions/internal/session"
)

// Action is a resolved input event.
type Action int

const (
	ActionNone Action = iota
	ActionMoveUp
	ActionMoveDown
	ActionPageUp
	ActionPageDown
	ActionHome
	ActionEnd
	ActionEnterSearch
	ActionExitSearch
	ActionClear
	ActionSearchChar
	ActionSearchBackspace
	ActionCycleSort
	ActionRefresh
	ActionLaunch
	ActionCopy
	ActionQuit
)

// minPageSize keeps navigation meaningful on tiny terminals.
const minPageSize = 3

// BrowserState is the browser's selection, scroll, search and sort state.
// It has no I/O; every mutation leaves Selected and Offset clamped to the
// visible list and the current page size.
type BrowserState struct {
	sessions  []session.Session
	filtered  []session.Session
	filtering bool

	Selected   int
	Offset     int
	SearchMode bool
	SearchText string
	SortMode   session.SortMode
	Status     string

	pageSize  int
	statusSeq int
	index     *session.SearchIndex
}

// NewBrowserState returns an empty state with the given page size.
func NewBrowserState(pageSize int) *BrowserState {
	return &BrowserState{
		pageSize: max(pageSize, minPageSize),
		index:    session.NewSearchIndex(),
	}
}

// PageSize returns the number of table rows per page.
func (s *BrowserState) PageSize() int {
	return s.pageSize
}

// SetPageSize updates the page size after a resize.
func (s *BrowserState) SetPageSize(n int) {
	s.pageSize = max(n, minPageSize)
	s.Clamp()
}

// Sessions returns the full sorted collection.
func (s *BrowserState) Sessions() []session.Session {
	return s.sessions
}

// Filtering reports whether a search filter is active.
func (s *BrowserState) Filtering() bool {
	return s.filtering
}

// Visible returns the filtered view when a filter is active, else every session.
func (s *BrowserState) Visible() []session.Session {
	if s.filtering {
		return s.filtered
	}
	return s.sessions
}

// Current returns the selected visible session.
func (s *BrowserState) Current() (session.Session, bool) {
	visible := s.Visible()
	if len(visible) == 0 {
		return session.Session{}, false
	}
	return visible[s.Selected], true
}

// SetSessions replaces the collection after a load. The search index is
// invalidated, the collection re-sorted and re-filtered, and the selection
// kept where it was as far as the new list allows.
func (s *BrowserState) SetSessions(sessions []session.Session) {
	s.sessions = sessions
	s.index.Invalidate()
	s.apply()
	s.Clamp()
}

// Clamp restores the selection and scroll invariants.
func (s *BrowserState) Clamp() {
	n := len(s.Visible())
	if n == 0 {
		s.Selected, s.Offset = 0, 0
		return
	}
	s.Selected = min(max(s.Selected, 0), n-1)
	if s.Selected < s.Offset {
		s.Offset = s.Selected
	} else if s.Selected >= s.Offset+s.pageSize {
		s.Offset = s.Selected - s.pageSize + 1
	}
	s.Offset = min(max(s.Offset, 0), max(n-s.pageSize, 0))
}

// Apply performs one state transition. Launch, refresh and quit carry side
// effects owned by the caller and leave the state untouched; it returns
// false for those and for no-op actions.
func (s *BrowserState) Apply(action Action, input []rune) bool {
	switch action {
	case ActionMoveUp:
		s.Selected--
	case ActionMoveDown:
		s.Selected++
	case ActionPageUp:
		s.Selected = max(s.Selected-s.pageSize, 0)
		s.Offset = max(s.Offset-s.pageSize, 0)
	case ActionPageDown:
		n := len(s.Visible())
		s.Selected = min(s.Selected+s.pageSize, max(n-1, 0))
		s.Offset = min(s.Offset+s.pageSize, max(n-s.pageSize, 0))
	case ActionHome:
		s.toTop()
	case ActionEnd:
		s.Selected = len(s.Visible()) - 1
	case ActionEnterSearch:
		s.SearchMode = true
		s.SearchText = ""
	case ActionExitSearch:
		s.SearchMode = false
	case ActionClear:
		if s.SearchMode || s.SearchText == "" {
			return false
		}
		s.SearchText = ""
		s.filtering = false
		s.filtered = nil
		s.toTop()
	case ActionSearchChar:
		if !s.SearchMode || len(input) == 0 {
			return false
		}
		s.SearchText += string(input)
		s.apply()
		s.toTop()
	case ActionSearchBackspace:
		r := []rune(s.SearchText)
		if !s.SearchMode || len(r) == 0 {
			return false
		}
		s.SearchText = string(r[:len(r)-1])
		s.apply()
		s.toTop()
	case ActionCycleSort:
		s.SortMode = s.SortMode.Next()
		s.apply()
		s.toTop()
	default:
		return false
	}
	s.Clamp()
	return true
}

func (s *BrowserState) toTop() {
	s.Selected, s.Offset = 0, 0
}

// apply re-sorts the collection and re-runs the active query against it.
func (s *BrowserState) apply() {
	s.sessions = session.Sort(s.sessions, s.SortMode)
	s.filtered, s.filtering = s.index.Search(s.sessions, s.SearchText)
}

// Flash sets a transient status and returns the token that clears it.
func (s *BrowserState) Flash(msg string) int {
	s.statusSeq++
	s.Status = msg
	return s.statusSeq
}

// ClearStatus clears the status set by Flash unless a newer one replaced it.
func (s *BrowserState) ClearStatus(seq int) {
	if seq == s.statusSeq {
		s.Status = ""
	}
}

// Page returns the 1-based current page and the page count.
func (s *BrowserState) Page() (current, total int) {
	n := len(s.Visible())
	total = max((n+s.pageSize-1)/s.pageSize, 1)
	return s.Offset/s.pageSize + 1, total
}
