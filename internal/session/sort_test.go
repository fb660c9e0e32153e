package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortFixture() []Session {
	return []Session{
		{SessionID: "a", RepoName: "web", GitBranch: "main", MessageCount: 5, Modified: "2024-01-02T00:00:00.000Z"},
		{SessionID: "b", RepoName: "api", GitBranch: "feature/x", MessageCount: 50, Modified: "2024-03-01T00:00:00.000Z"},
		{SessionID: "c", RepoName: "cli", GitBranch: "(none)", MessageCount: 5, Created: "2024-02-01T00:00:00.000Z"},
		{SessionID: "d", RepoName: "api", GitBranch: "main", MessageCount: 0},
	}
}

func ids(sessions []Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.SessionID
	}
	return out
}

func TestSort(t *testing.T) {
	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortDate, []string{"b", "c", "a", "d"}},
		{SortMessages, []string{"b", "a", "c", "d"}},
		{SortRepo, []string{"b", "d", "c", "a"}},
		{SortBranch, []string{"c", "b", "a", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(sortFixture(), tt.mode)))
		})
	}
}

func TestSortLeavesInputAlone(t *testing.T) {
	in := sortFixture()
	_ = Sort(in, SortRepo)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(in))
}

func TestSortTotality(t *testing.T) {
	in := sortFixture()
	for mode := SortDate; mode < sortModeCount; mode++ {
		out := Sort(in, mode)
		require.Len(t, out, len(in))
		assert.ElementsMatch(t, in, out, mode.String())
	}
}

func TestSortModeCycle(t *testing.T) {
	for mode := SortDate; mode < sortModeCount; mode++ {
		assert.Equal(t, mode, mode.Next().Next().Next().Next())
		assert.NotEqual(t, mode, mode.Next())
	}
	assert.Equal(t, SortMessages, SortDate.Next())
	assert.Equal(t, SortDate, SortBranch.Next())
}

func TestSortModeLabel(t *testing.T) {
	assert.Equal(t, "Date", SortDate.Label())
	assert.Equal(t, "Messages", SortMessages.Label())
	assert.Equal(t, "Repo", SortRepo.Label())
	assert.Equal(t, "Branch", SortBranch.Label())
	assert.Equal(t, "Date", SortMode(99).Label())
}
