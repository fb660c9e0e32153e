package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude-sessions/claude-sessions/internal/logging"
)

var cacheLog = logging.ForComponent(logging.CompCache)

// CacheFileName is the default cache file, kept in the home directory.
const CacheFileName = ".claude-sessions-cache.json"

// DefaultCacheTTL is how long a written cache is trusted.
const DefaultCacheTTL = 5 * time.Minute

type cacheDocument struct {
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	Sessions  []Session `json:"sessions"`
}

// Cache stores the last scan result so the next start can paint at once.
// It is best effort: every failure reads as a miss and is only logged.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewCache creates a cache at path. An empty path disables it.
func NewCache(path string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{path: path, ttl: ttl, now: time.Now}
}

// DefaultCachePath returns ~/.claude-sessions-cache.json.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, CacheFileName)
}

// Read returns the cached sessions, or nil when the cache is missing,
// unreadable or older than the TTL.
func (c *Cache) Read() []Session {
	if c == nil || c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			cacheLog.Debug("cache_read_failed", slog.String("error", err.Error()))
		}
		return nil
	}
	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		cacheLog.Debug("cache_corrupt", slog.String("error", err.Error()))
		return nil
	}
	age := c.now().Sub(time.UnixMilli(doc.Timestamp))
	if doc.Timestamp == 0 || age >= c.ttl {
		cacheLog.Debug("cache_stale", slog.Duration("age", age))
		return nil
	}
	if doc.Sessions == nil {
		return []Session{}
	}
	return doc.Sessions
}

// Write replaces the cache with sessions. Errors are logged and dropped.
func (c *Cache) Write(sessions []Session) {
	if c == nil || c.path == "" {
		return
	}
	if err := c.write(sessions); err != nil {
		cacheLog.Debug("cache_write_failed", slog.String("error", err.Error()))
	}
}

func (c *Cache) write(sessions []Session) error {
	if sessions == nil {
		sessions = []Session{}
	}
	data, err := json.Marshal(cacheDocument{Timestamp: c.now().UnixMilli(), Sessions: sessions})
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	// a private temp file per write, renamed into place, so overlapping
	// writers never share a partial file and readers see whole documents
	f, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache: %w", werr)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize cache: %w", err)
	}
	return nil
}
