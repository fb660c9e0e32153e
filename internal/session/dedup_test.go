package session

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupKeepsLaterModified(t *testing.T) {
	out := Dedup([]Session{
		{SessionID: "A", Modified: "2024-01-01", SourceFile: "first"},
		{SessionID: "A", Modified: "2024-01-02", SourceFile: "second"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].SessionID)
	assert.Equal(t, "2024-01-02", out[0].Modified)
	assert.Equal(t, "second", out[0].SourceFile)
}

func TestDedupTieKeepsFirstSeen(t *testing.T) {
	out := Dedup([]Session{
		{SessionID: "A", Modified: "2024-01-01", SourceFile: "first"},
		{SessionID: "A", Modified: "2024-01-01", SourceFile: "second"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].SourceFile)
}

func TestDedupEmpty(t *testing.T) {
	assert.Empty(t, Dedup(nil))
}

func TestDedupProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := range 50 {
		var input []Session
		maxByID := make(map[string]string)
		for range rng.Intn(40) {
			id := fmt.Sprintf("s%d", rng.Intn(8))
			mod := fmt.Sprintf("2024-%02d-%02dT00:00:00.000Z", 1+rng.Intn(12), 1+rng.Intn(28))
			input = append(input, Session{SessionID: id, Modified: mod})
			if mod > maxByID[id] {
				maxByID[id] = mod
			}
		}

		out := Dedup(input)
		require.Len(t, out, len(maxByID), "round %d", round)
		seen := make(map[string]bool)
		for _, s := range out {
			assert.False(t, seen[s.SessionID], "duplicate id %s", s.SessionID)
			seen[s.SessionID] = true
			assert.Equal(t, maxByID[s.SessionID], s.Modified)
		}
	}
}
