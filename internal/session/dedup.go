package session

// Dedup merges sessions sharing a SessionID, keeping the one with the later
// Modified timestamp. Timestamps are fixed-width ISO-8601 strings, so plain
// string comparison orders them. Output keeps first-seen order; callers sort
// before display.
func Dedup(sessions []Session) []Session {
	pos := make(map[string]int, len(sessions))
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		i, seen := pos[s.SessionID]
		if !seen {
			pos[s.SessionID] = len(out)
			out = append(out, s)
			continue
		}
		if s.Modified > out[i].Modified {
			out[i] = s
		}
	}
	return out
}
