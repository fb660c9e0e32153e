package ui

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claude-sessions/claude-sessions/internal/session"
)

func newLoadedState(pageSize, n int) *BrowserState {
	s := NewBrowserState(pageSize)
	s.SetSessions(makeSessions(n))
	return s
}

func assertClamped(t *testing.T, s *BrowserState) {
	t.Helper()
	n := len(s.Visible())
	if n == 0 {
		assert.Zero(t, s.Selected)
		assert.Zero(t, s.Offset)
		return
	}
	assert.GreaterOrEqual(t, s.Selected, 0)
	assert.Less(t, s.Selected, n)
	assert.GreaterOrEqual(t, s.Selected, s.Offset)
	assert.Less(t, s.Selected, s.Offset+s.PageSize())
	assert.LessOrEqual(t, s.Offset, max(n-s.PageSize(), 0))
}

func TestClampScrollsToSelection(t *testing.T) {
	s := newLoadedState(10, 25)
	s.Selected = 24
	s.Clamp()
	assert.Equal(t, 24, s.Selected)
	assert.Equal(t, 15, s.Offset)
}

func TestClampEmpty(t *testing.T) {
	s := NewBrowserState(10)
	s.Selected, s.Offset = 7, 3
	s.Clamp()
	assert.Zero(t, s.Selected)
	assert.Zero(t, s.Offset)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestNavigation(t *testing.T) {
	s := newLoadedState(10, 25)

	s.Apply(ActionMoveUp, nil)
	assert.Equal(t, 0, s.Selected, "cannot move above the first row")

	s.Apply(ActionMoveDown, nil)
	s.Apply(ActionMoveDown, nil)
	assert.Equal(t, 2, s.Selected)

	s.Apply(ActionPageDown, nil)
	assert.Equal(t, 12, s.Selected)
	assert.Equal(t, 10, s.Offset)

	s.Apply(ActionPageDown, nil)
	assert.Equal(t, 22, s.Selected)
	assert.Equal(t, 15, s.Offset)

	s.Apply(ActionPageDown, nil)
	assert.Equal(t, 24, s.Selected)
	assert.Equal(t, 15, s.Offset)

	s.Apply(ActionPageUp, nil)
	assert.Equal(t, 14, s.Selected)
	assert.Equal(t, 5, s.Offset)

	s.Apply(ActionEnd, nil)
	assert.Equal(t, 24, s.Selected)
	assert.Equal(t, 15, s.Offset)

	s.Apply(ActionHome, nil)
	assert.Zero(t, s.Selected)
	assert.Zero(t, s.Offset)
}

func TestPageSizeFloor(t *testing.T) {
	s := NewBrowserState(0)
	assert.Equal(t, minPageSize, s.PageSize())

	s = newLoadedState(10, 25)
	s.Apply(ActionEnd, nil)
	s.SetPageSize(20)
	assert.Equal(t, 24, s.Selected)
	assert.Equal(t, 5, s.Offset)
}

func TestSearchTransitions(t *testing.T) {
	s := newLoadedState(10, 25)
	s.Apply(ActionMoveDown, nil)

	require.True(t, s.Apply(ActionEnterSearch, nil))
	assert.True(t, s.SearchMode)
	assert.Empty(t, s.SearchText)
	assert.False(t, s.Filtering())

	s.Apply(ActionSearchChar, []rune("repo-1"))
	assert.Equal(t, "repo-1", s.SearchText)
	assert.True(t, s.Filtering())
	assert.Zero(t, s.Selected, "typing resets the selection")
	for _, v := range s.Visible() {
		assert.Contains(t, v.RepoName+v.FirstPrompt+v.ProjectPath, "1")
	}

	// filter survives leaving search mode
	s.Apply(ActionExitSearch, nil)
	assert.False(t, s.SearchMode)
	assert.Equal(t, "repo-1", s.SearchText)
	assert.True(t, s.Filtering())

	// clear drops both text and filter
	require.True(t, s.Apply(ActionClear, nil))
	assert.Empty(t, s.SearchText)
	assert.False(t, s.Filtering())
	assert.Len(t, s.Visible(), 25)

	// nothing to clear
	assert.False(t, s.Apply(ActionClear, nil))
}

func TestSearchBackspace(t *testing.T) {
	s := newLoadedState(10, 5)
	s.Apply(ActionEnterSearch, nil)

	assert.False(t, s.Apply(ActionSearchBackspace, nil), "empty text is a no-op")

	s.Apply(ActionSearchChar, []rune("zz"))
	s.Apply(ActionSearchBackspace, nil)
	assert.Equal(t, "z", s.SearchText)
	s.Apply(ActionSearchBackspace, nil)
	assert.Empty(t, s.SearchText)
	assert.False(t, s.Filtering(), "an empty query shows everything")
	assert.Len(t, s.Visible(), 5)
}

func TestSearchCharIgnoredOutsideSearch(t *testing.T) {
	s := newLoadedState(10, 5)
	assert.False(t, s.Apply(ActionSearchChar, []rune("x")))
	assert.Empty(t, s.SearchText)
}

func TestCycleSort(t *testing.T) {
	s := newLoadedState(10, 5)
	s.Apply(ActionEnd, nil)

	s.Apply(ActionCycleSort, nil)
	assert.Equal(t, session.SortMessages, s.SortMode)
	assert.Zero(t, s.Selected)
	assert.Equal(t, 4, s.Sessions()[0].MessageCount)

	s.Apply(ActionCycleSort, nil)
	s.Apply(ActionCycleSort, nil)
	s.Apply(ActionCycleSort, nil)
	assert.Equal(t, session.SortDate, s.SortMode)
	assert.Equal(t, "repo-00", s.Sessions()[0].RepoName)
}

func TestSideEffectActionsLeaveState(t *testing.T) {
	s := newLoadedState(10, 5)
	for _, a := range []Action{ActionNone, ActionRefresh, ActionLaunch, ActionCopy, ActionQuit} {
		assert.False(t, s.Apply(a, nil))
	}
}

func TestSetSessionsKeepsFilter(t *testing.T) {
	s := newLoadedState(10, 25)
	s.Apply(ActionEnterSearch, nil)
	s.Apply(ActionSearchChar, []rune("repo-2"))
	before := len(s.Visible())

	s.SetSessions(makeSessions(25))
	assert.True(t, s.Filtering())
	assert.Len(t, s.Visible(), before)
}

func TestFlash(t *testing.T) {
	s := NewBrowserState(10)
	first := s.Flash("one")
	second := s.Flash("two")

	s.ClearStatus(first)
	assert.Equal(t, "two", s.Status, "a stale clear must not remove a newer status")
	s.ClearStatus(second)
	assert.Empty(t, s.Status)
}

func TestPage(t *testing.T) {
	s := NewBrowserState(10)
	cur, total := s.Page()
	assert.Equal(t, 1, cur)
	assert.Equal(t, 1, total)

	s.SetSessions(makeSessions(25))
	s.Apply(ActionEnd, nil)
	cur, total = s.Page()
	assert.Equal(t, 2, cur)
	assert.Equal(t, 3, total)
}

func TestClampHoldsUnderRandomActions(t *testing.T) {
	actions := []Action{
		ActionMoveUp, ActionMoveDown, ActionPageUp, ActionPageDown,
		ActionHome, ActionEnd, ActionEnterSearch, ActionExitSearch,
		ActionClear, ActionSearchChar, ActionSearchBackspace, ActionCycleSort,
	}
	inputs := []string{"r", "e", "p", "o", "-", "1", "x", "task"}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		s := newLoadedState(3+rng.Intn(10), rng.Intn(40))
		for i := 0; i < 200; i++ {
			a := actions[rng.Intn(len(actions))]
			s.Apply(a, []rune(inputs[rng.Intn(len(inputs))]))
			if rng.Intn(25) == 0 {
				s.SetPageSize(rng.Intn(15))
			}
			if rng.Intn(40) == 0 {
				s.SetSessions(makeSessions(rng.Intn(40)))
			}
			assertClamped(t, s)
		}
	}
}
