package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	dark "github.com/thiagokokada/dark-mode-go"
)

// UserConfigFileName is the TOML config file inside the app directory
const UserConfigFileName = "config.toml"

// AppDirEnv overrides the app directory (default ~/.claude-sessions)
const AppDirEnv = "CLAUDE_SESSIONS_HOME"

// Launch methods accepted in [launch].method
const (
	LaunchAuto            = "auto"
	LaunchInPlace         = "in-place"
	LaunchWindowsTerminal = "windows-terminal"
	LaunchTmux            = "tmux"
)

// UserConfig represents user-facing configuration in TOML format
type UserConfig struct {
	// Theme sets the color scheme: "dark" (default), "light", or "system"
	Theme string `toml:"theme"`

	Claude ClaudeSettings `toml:"claude"`
	Launch LaunchSettings `toml:"launch"`
	Cache  CacheSettings  `toml:"cache"`
	Watch  WatchSettings  `toml:"watch"`
	Logs   LogSettings    `toml:"logs"`
}

// ClaudeSettings configures where sessions live and how they are resumed
type ClaudeSettings struct {
	// ConfigDir is the Claude data directory (default ~/.claude).
	// CLAUDE_CONFIG_DIR takes precedence.
	ConfigDir string `toml:"config_dir"`

	// Command is the claude executable (default "claude")
	Command string `toml:"command"`

	// SkipPermissions adds --dangerously-skip-permissions on resume.
	// Default: true
	SkipPermissions *bool `toml:"skip_permissions"`
}

// GetSkipPermissions returns whether to pass --dangerously-skip-permissions, defaulting to true
func (c *ClaudeSettings) GetSkipPermissions() bool {
	if c.SkipPermissions == nil {
		return true
	}
	return *c.SkipPermissions
}

// GetCommand returns the claude executable, defaulting to "claude"
func (c *ClaudeSettings) GetCommand() string {
	if strings.TrimSpace(c.Command) == "" {
		return "claude"
	}
	return c.Command
}

// LaunchSettings selects how a session is resumed
type LaunchSettings struct {
	// Method is "auto" (default), "in-place", "windows-terminal", or "tmux"
	Method string `toml:"method"`
}

// CacheSettings configures the startup cache
type CacheSettings struct {
	// Enabled defaults to true
	Enabled *bool `toml:"enabled"`

	// Path of the cache file (default ~/.claude-sessions-cache.json)
	Path string `toml:"path"`

	// TTLSeconds is how long a cache is trusted (default 300)
	TTLSeconds int `toml:"ttl_seconds"`
}

// GetEnabled returns whether the cache is used, defaulting to true
func (c *CacheSettings) GetEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// GetTTL returns the cache TTL with the default applied
func (c *CacheSettings) GetTTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// WatchSettings configures automatic refresh on filesystem changes
type WatchSettings struct {
	// Enabled defaults to true
	Enabled *bool `toml:"enabled"`

	// DebounceMs waits for writes to settle (default 500)
	DebounceMs int `toml:"debounce_ms"`

	// MinIntervalSecs is the minimum time between automatic refreshes (default 5)
	MinIntervalSecs int `toml:"min_interval_secs"`
}

// GetEnabled returns whether auto refresh is on, defaulting to true
func (w *WatchSettings) GetEnabled() bool {
	if w.Enabled == nil {
		return true
	}
	return *w.Enabled
}

// Options converts the settings into watcher options with defaults applied
func (w *WatchSettings) Options() WatchOptions {
	opts := WatchOptions{
		Debounce:    time.Duration(w.DebounceMs) * time.Millisecond,
		MinInterval: time.Duration(w.MinIntervalSecs) * time.Second,
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultWatchDebounce
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultWatchMinInterval
	}
	return opts
}

// LogSettings defines debug log configuration
type LogSettings struct {
	// DebugLevel sets the minimum log level: "debug", "info", "warn", "error"
	// Default: "info"
	DebugLevel string `toml:"debug_level"`

	// DebugFormat sets the log format: "json" (default) or "text"
	DebugFormat string `toml:"debug_format"`

	// DebugMaxMB is the max size in MB for debug.log before rotation
	// Default: 10
	DebugMaxMB int `toml:"debug_max_mb"`

	// DebugBackups is the number of rotated debug.log files to keep
	// Default: 3
	DebugBackups int `toml:"debug_backups"`

	// DebugRetentionDays is the number of days to keep rotated debug logs
	// Default: 7
	DebugRetentionDays int `toml:"debug_retention_days"`

	// DebugCompress enables gzip compression for rotated debug logs
	DebugCompress bool `toml:"debug_compress"`

	// RingBufferMB is the in-memory ring buffer size in MB for crash dumps
	// Default: 2
	RingBufferMB int `toml:"ring_buffer_mb"`

	// PprofEnabled starts a pprof server when debug mode is active
	PprofEnabled bool `toml:"pprof_enabled"`

	// PprofAddr is the pprof listen address
	// Default: "localhost:6060"
	PprofAddr string `toml:"pprof_addr"`

	// AggregateIntervalS is the event aggregation flush interval in seconds
	// Default: 30
	AggregateIntervalS int `toml:"aggregate_interval_secs"`
}

var defaultUserConfig = UserConfig{}

// Cache for user config (loaded once per process)
var (
	userConfigCache   *UserConfig
	userConfigCacheMu sync.RWMutex
)

// GetAppDir returns the directory holding config.toml and debug logs
func GetAppDir() (string, error) {
	if dir := os.Getenv(AppDirEnv); dir != "" {
		return expandTilde(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude-sessions"), nil
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	dir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigFileName), nil
}

// LoadUserConfig loads the user configuration from TOML file.
// Returns cached config after first load. A parse error still caches the
// defaults so the file is not re-read on every getter call.
func LoadUserConfig() (*UserConfig, error) {
	userConfigCacheMu.RLock()
	if userConfigCache != nil {
		defer userConfigCacheMu.RUnlock()
		return userConfigCache, nil
	}
	userConfigCacheMu.RUnlock()

	userConfigCacheMu.Lock()
	defer userConfigCacheMu.Unlock()

	// Double-check after acquiring write lock
	if userConfigCache != nil {
		return userConfigCache, nil
	}

	configPath, err := GetUserConfigPath()
	if err != nil {
		userConfigCache = &defaultUserConfig
		return userConfigCache, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		userConfigCache = &defaultUserConfig
		return userConfigCache, nil
	}

	var config UserConfig
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		userConfigCache = &defaultUserConfig
		return userConfigCache, fmt.Errorf("config.toml parse error: %w", err)
	}

	userConfigCache = &config
	return userConfigCache, nil
}

// ReloadUserConfig forces a reload of the user config
func ReloadUserConfig() (*UserConfig, error) {
	ClearUserConfigCache()
	return LoadUserConfig()
}

// ClearUserConfigCache clears the cached user config, allowing tests to reset state.
// This does NOT reload - the next LoadUserConfig() call will read fresh from disk
func ClearUserConfigCache() {
	userConfigCacheMu.Lock()
	userConfigCache = nil
	userConfigCacheMu.Unlock()
}

func loadOrDefault() *UserConfig {
	config, err := LoadUserConfig()
	if err != nil || config == nil {
		return &defaultUserConfig
	}
	return config
}

// GetTheme returns the current theme, defaulting to "dark"
func GetTheme() string {
	switch theme := loadOrDefault().Theme; theme {
	case "dark", "light", "system":
		return theme
	default:
		return "dark"
	}
}

// ResolveTheme resolves the configured theme to "dark" or "light".
// If theme is "system", detects the OS dark mode setting.
// Falls back to "dark" on detection failure.
func ResolveTheme() string {
	theme := GetTheme()
	if theme != "system" {
		return theme
	}
	isDark, err := dark.IsDarkMode()
	if err != nil || isDark {
		return "dark"
	}
	return "light"
}

// GetClaudeConfigDir returns the Claude data directory.
// Priority: CLAUDE_CONFIG_DIR env > [claude].config_dir > ~/.claude
func GetClaudeConfigDir() string {
	if envDir := os.Getenv("CLAUDE_CONFIG_DIR"); envDir != "" {
		return expandTilde(envDir)
	}
	if dir := loadOrDefault().Claude.ConfigDir; dir != "" {
		return expandTilde(dir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

// GetProjectsDir returns the directory scanned for sessions
func GetProjectsDir() string {
	return filepath.Join(GetClaudeConfigDir(), "projects")
}

// GetClaudeSettings returns the [claude] section
func GetClaudeSettings() ClaudeSettings {
	return loadOrDefault().Claude
}

// GetLaunchMethod returns the configured launch method, defaulting to "auto"
func GetLaunchMethod() string {
	switch m := strings.ToLower(strings.TrimSpace(loadOrDefault().Launch.Method)); m {
	case LaunchInPlace, LaunchWindowsTerminal, LaunchTmux:
		return m
	default:
		return LaunchAuto
	}
}

// GetCacheSettings returns the [cache] section
func GetCacheSettings() CacheSettings {
	return loadOrDefault().Cache
}

// GetCachePath returns the cache file path, or "" when caching is disabled
func GetCachePath() string {
	settings := GetCacheSettings()
	if !settings.GetEnabled() {
		return ""
	}
	if settings.Path != "" {
		return expandTilde(settings.Path)
	}
	return DefaultCachePath()
}

// GetWatchSettings returns the [watch] section
func GetWatchSettings() WatchSettings {
	return loadOrDefault().Watch
}

// GetLogSettings returns debug log settings with defaults applied
func GetLogSettings() LogSettings {
	settings := loadOrDefault().Logs
	if settings.DebugMaxMB <= 0 {
		settings.DebugMaxMB = 10
	}
	if settings.DebugBackups <= 0 {
		settings.DebugBackups = 3
	}
	if settings.DebugRetentionDays <= 0 {
		settings.DebugRetentionDays = 7
	}
	if settings.RingBufferMB <= 0 {
		settings.RingBufferMB = 2
	}
	if settings.AggregateIntervalS <= 0 {
		settings.AggregateIntervalS = 30
	}
	return settings
}

// expandTilde expands a leading ~/ to the home directory
func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
