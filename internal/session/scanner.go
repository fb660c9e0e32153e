package session

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/claude-sessions/claude-sessions/internal/logging"
	"github.com/claude-sessions/claude-sessions/internal/platform"
)

var scanLog = logging.ForComponent(logging.CompScan)

// IndexFileName is the optional precomputed index inside a project directory.
const IndexFileName = "sessions-index.json"

const logExt = ".jsonl"

type sessionIndex struct {
	Entries []IndexEntry `json:"entries"`
}

// Scanner discovers sessions below a Claude projects directory.
type Scanner struct {
	root string
}

// NewScanner creates a scanner for root, normally ~/.claude/projects.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the directory being scanned.
func (s *Scanner) Root() string {
	return s.root
}

// Scan runs a full discovery pass. Individual unreadable files never fail
// the scan; the only error is ctx ending before the pass completes.
func (s *Scanner) Scan(ctx context.Context) ([]Session, error) {
	start := time.Now()
	sessions := ScanAll(ctx, s.root)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}
	scanLog.Info("scan_complete",
		slog.String("root", s.root),
		slog.Int("sessions", len(sessions)),
		slog.Duration("elapsed", time.Since(start)))
	return sessions, nil
}

// ScanAll scans every project directory under root in parallel and returns
// the deduplicated result. Failures degrade to "contributes nothing".
func ScanAll(ctx context.Context, root string) []Session {
	entries, err := os.ReadDir(root)
	if err != nil {
		scanLog.Debug("projects_dir_unreadable", slog.String("root", root), slog.String("error", err.Error()))
		return nil
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}

	// Each task writes only its own slot; Wait is the only synchronization.
	results := make([][]Session, len(dirs))
	var g errgroup.Group
	for i, dir := range dirs {
		g.Go(func() error {
			results[i] = scanProjectDir(ctx, dir)
			return nil
		})
	}
	_ = g.Wait()

	var all []Session
	for _, r := range results {
		all = append(all, r...)
	}
	return Dedup(all)
}

func scanProjectDir(ctx context.Context, dir string) []Session {
	if ctx.Err() != nil {
		return nil
	}

	var sessions []Session
	indexed := make(map[string]bool)

	indexPath := filepath.Join(dir, IndexFileName)
	entries, err := readIndex(indexPath)
	switch {
	case err == nil:
		recoverIndexPrompts(ctx, dir, entries)
		for _, e := range entries {
			// entries without an id cannot be resumed
			if e.SessionID == "" {
				continue
			}
			sessions = append(sessions, Normalize(e, indexPath))
			indexed[e.SessionID] = true
		}
	case !errors.Is(err, fs.ErrNotExist):
		logging.Aggregate(logging.CompScan, "index_unreadable",
			slog.String("path", indexPath), slog.String("error", err.Error()))
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		logging.Aggregate(logging.CompScan, "project_dir_unreadable",
			slog.String("path", dir), slog.String("error", err.Error()))
		return sessions
	}

	var candidates []string
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, logExt) {
			continue
		}
		if indexed[strings.TrimSuffix(name, logExt)] {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, name))
	}

	parsed := make([]*Session, len(candidates))
	var g errgroup.Group
	for i, path := range candidates {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if s, ok := ParseLog(path); ok {
				parsed[i] = &s
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range parsed {
		// the id inside the file can differ from its name
		if s == nil || indexed[s.SessionID] {
			continue
		}
		sessions = append(sessions, *s)
	}
	return sessions
}

func readIndex(path string) ([]IndexEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx sessionIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return idx.Entries, nil
}

// recoverIndexPrompts replaces weak index prompts with one read from the
// session's transcript, leaving the entry untouched when recovery fails.
func recoverIndexPrompts(ctx context.Context, dir string, entries []IndexEntry) {
	var g errgroup.Group
	for i := range entries {
		e := &entries[i]
		if e.SessionID == "" || !NeedsRecovery(e.FirstPrompt) {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if prompt, ok := RecoverFirstPrompt(filepath.Join(dir, e.SessionID+logExt)); ok {
				e.FirstPrompt = prompt
			} else {
				logging.Aggregate(logging.CompScan, "prompt_not_recovered")
			}
			return nil
		})
	}
	_ = g.Wait()
}

// logHead collects metadata from the first records of a transcript.
type logHead struct {
	sessionID string
	cwd       string
	gitBranch string
	timestamp string
	prompt    string
}

func (h *logHead) complete() bool {
	return h.sessionID != "" && h.cwd != "" && h.prompt != ""
}

func (h *logHead) observe(rec *logRecord) {
	if h.sessionID == "" {
		h.sessionID = rec.SessionID
	}
	if h.cwd == "" {
		h.cwd = rec.CWD
	}
	if h.gitBranch == "" {
		h.gitBranch = rec.GitBranch
	}
	if h.timestamp == "" {
		h.timestamp = rec.Timestamp
	}
	if h.prompt == "" {
		if text, ok := rec.externalPrompt(); ok {
			h.prompt = text
		}
	}
}

// ParseLog builds a Session from a raw transcript. Metadata comes from the
// first 32 KiB; the message count comes from a separate pass over the whole
// file that matches type markers without parsing JSON. ok is false when the
// file is unreadable or carries no session id.
func ParseLog(path string) (Session, bool) {
	info, err := os.Stat(path)
	if err != nil {
		logging.Aggregate(logging.CompScan, "log_unreadable", slog.String("path", path))
		return Session{}, false
	}
	lines, err := readHeadLines(path)
	if err != nil {
		logging.Aggregate(logging.CompScan, "log_unreadable", slog.String("path", path))
		return Session{}, false
	}

	var head logHead
	for _, line := range lines {
		var rec logRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			if head.prompt == "" {
				if text, ok := fallbackPrompt(line); ok {
					head.prompt = text
				}
			}
			continue
		}
		if rec.Type != "user" || rec.SessionID == "" {
			continue
		}
		head.observe(&rec)
		if head.complete() {
			break
		}
	}
	if head.sessionID == "" {
		logging.Aggregate(logging.CompScan, "log_without_session_id", slog.String("path", path))
		return Session{}, false
	}

	count, err := countMessages(path)
	if err != nil {
		logging.Aggregate(logging.CompScan, "log_unreadable", slog.String("path", path))
		return Session{}, false
	}

	created := head.timestamp
	if created == "" {
		created = formatTimestamp(platform.FileBirthTime(path, info))
	}

	return Normalize(IndexEntry{
		SessionID:    head.sessionID,
		ProjectPath:  head.cwd,
		GitBranch:    head.gitBranch,
		FirstPrompt:  head.prompt,
		MessageCount: count,
		Created:      created,
		Modified:     formatTimestamp(info.ModTime()),
	}, path), true
}

// countMessages counts lines mentioning a user or assistant type marker.
// It is approximate by design: no line is parsed.
func countMessages(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	count := 0
	for {
		line, err := r.ReadBytes('\n')
		if bytes.Contains(line, userTypeMarker) || bytes.Contains(line, assistantMarker) {
			count++
		}
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
