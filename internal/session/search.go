package session

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/claude-sessions/claude-sessions/internal/logging"
)

var searchLog = logging.ForComponent(logging.CompSearch)

// minSimilarity is the lowest per-field similarity that counts as a match
// (a 0.4 distance threshold).
const minSimilarity = 0.6

type searchField struct {
	name   string
	weight float64
	value  func(*Session) string
}

var searchFields = []searchField{
	{"prompt", 0.40, func(s *Session) string { return s.FirstPrompt }},
	{"repo", 0.25, func(s *Session) string { return s.RepoName }},
	{"branch", 0.20, func(s *Session) string { return s.GitBranch }},
	{"path", 0.15, func(s *Session) string { return s.ProjectPath }},
}

// fieldSource implements fuzzy.Source over one field of every session.
type fieldSource []string

func (f fieldSource) String(i int) string { return f[i] }
func (f fieldSource) Len() int            { return len(f) }

// SearchIndex ranks sessions by weighted fuzzy match across prompt, repo,
// branch and path. The per-field columns are built lazily and reused while
// the caller keeps passing the same slice; a different slice (by identity,
// not content) rebuilds them. Call Invalidate after a reload.
type SearchIndex struct {
	built   bool
	source  []Session
	columns [][]string
}

// NewSearchIndex returns an empty index.
func NewSearchIndex() *SearchIndex {
	return &SearchIndex{}
}

// Invalidate drops the cached columns.
func (idx *SearchIndex) Invalidate() {
	idx.built = false
	idx.source = nil
	idx.columns = nil
}

func sameSlice(a, b []Session) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func (idx *SearchIndex) ensure(sessions []Session) {
	if idx.built && sameSlice(idx.source, sessions) {
		return
	}
	idx.columns = make([][]string, len(searchFields))
	for f, field := range searchFields {
		col := make([]string, len(sessions))
		for i := range sessions {
			col[i] = field.value(&sessions[i])
		}
		idx.columns[f] = col
	}
	idx.source = sessions
	idx.built = true
	searchLog.Debug("search_index_built", slog.Int("sessions", len(sessions)))
}

// Search filters and ranks sessions against query. filtered is false for an
// empty or whitespace-only query, meaning "show everything"; otherwise the
// matches are returned best first, ties in input order.
func (idx *SearchIndex) Search(sessions []Session, query string) (results []Session, filtered bool) {
	if strings.TrimSpace(query) == "" {
		return nil, false
	}
	idx.ensure(sessions)

	needle := foldRunes(query)
	scores := make([]float64, len(sessions))
	for f, field := range searchFields {
		for _, m := range fuzzy.FindFrom(query, fieldSource(idx.columns[f])) {
			if similarity(m.Str, needle) >= minSimilarity {
				scores[m.Index] += field.weight
			}
		}
	}

	var hits []int
	for i, score := range scores {
		if score > 0 {
			hits = append(hits, i)
		}
	}
	slices.SortStableFunc(hits, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	results = make([]Session, len(hits))
	for i, h := range hits {
		results[i] = sessions[h]
	}
	return results, true
}

// similarity is the ratio of query runes to the shortest rune span of the
// field that contains the query as a case-insensitive subsequence. Every
// start position is tried, so a whole word late in the field scores 1 even
// when scattered letters earlier would have started a longer match.
func similarity(field string, needle []rune) float64 {
	if len(needle) == 0 {
		return 0
	}
	hay := foldRunes(field)
	best := 0
	for start, r := range hay {
		if r != needle[0] {
			continue
		}
		k := 1
		end := start
		for j := start + 1; j < len(hay) && k < len(needle); j++ {
			if hay[j] == needle[k] {
				k++
				end = j
			}
		}
		if k < len(needle) {
			// later starts cannot complete either
			break
		}
		if span := end - start + 1; best == 0 || span < best {
			best = span
		}
	}
	if best == 0 {
		return 0
	}
	return min(float64(len(needle))/float64(best), 1)
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
