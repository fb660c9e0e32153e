package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names attached to every record as the "component" attribute.
const (
	CompScan   = "scan"
	CompSearch = "search"
	CompCache  = "cache"
	CompUI     = "ui"
	CompLaunch = "launch"
	CompWatch  = "watch"
	CompConfig = "config"
)

// LogFileName is the rotated log file written inside Config.LogDir.
const LogFileName = "debug.log"

// Config holds logging configuration.
type Config struct {
	// LogDir is the directory for log files (e.g. ~/.claude-sessions)
	LogDir string

	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string

	// Format is "json" (default) or "text"
	Format string

	// MaxSizeMB is the max size in MB before rotation (default: 10)
	MaxSizeMB int

	// MaxBackups is rotated files to keep (default: 3)
	MaxBackups int

	// MaxAgeDays is days to keep rotated files (default: 7)
	MaxAgeDays int

	// Compress rotated files
	Compress bool

	// RingBufferSize is the in-memory ring buffer size in bytes (default: 2MB)
	RingBufferSize int

	// AggregateIntervalSecs is the aggregation flush interval (default: 30)
	AggregateIntervalSecs int

	// PprofEnabled starts a pprof server on PprofAddr
	PprofEnabled bool

	// PprofAddr is the pprof listen address (default: localhost:6060)
	PprofAddr string

	// Debug indicates whether debug mode is active
	Debug bool
}

var (
	globalLogger *slog.Logger
	globalRing   *RingBuffer
	globalAgg    *Aggregator
	globalMu     sync.RWMutex
	rotator      *lumberjack.Logger
	globalPprof  *pprofServer
)

// Init initializes the global logging system.
// When debug is false, logs are discarded: the browser owns the terminal and
// nothing may be written to stdout or stderr while it runs.
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalPprof != nil {
		globalPprof.close()
		globalPprof = nil
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 7
	}
	if cfg.RingBufferSize <= 0 {
		cfg.RingBufferSize = 2 * 1024 * 1024
	}
	if cfg.AggregateIntervalSecs <= 0 {
		cfg.AggregateIntervalSecs = 30
	}

	if !cfg.Debug || cfg.LogDir == "" {
		globalLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		globalRing = NewRingBuffer(1024)
		globalAgg = NewAggregator(nil, cfg.AggregateIntervalSecs)
		return
	}

	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, LogFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	globalRing = NewRingBuffer(cfg.RingBufferSize)
	out := io.MultiWriter(rotator, globalRing)

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	globalLogger = slog.New(handler)

	globalAgg = NewAggregator(globalLogger, cfg.AggregateIntervalSecs)
	globalAgg.Start()

	if cfg.PprofEnabled {
		srv, err := startPprof(cfg.PprofAddr, globalLogger)
		if err != nil {
			globalLogger.Warn("pprof_server_failed", slog.String("error", err.Error()))
		} else {
			globalPprof = srv
			globalLogger.Info("pprof_server_start", slog.String("addr", srv.addr))
		}
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the global logger. Safe to call before Init (returns a discard logger).
func Logger() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return globalLogger
}

// ForComponent returns a logger that tags records with the component name.
// The handler is resolved at log time, so package-level loggers declared
// before Init still reach the real output.
func ForComponent(name string) *slog.Logger {
	return slog.New(&componentHandler{component: name})
}

type componentHandler struct {
	component string
	attrs     []slog.Attr
	group     string
}

func (h *componentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	if h.group != "" {
		handler = handler.WithGroup(h.group)
	}
	return handler.Handle(ctx, r)
}

func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &componentHandler{component: h.component, attrs: merged, group: h.group}
}

func (h *componentHandler) WithGroup(name string) slog.Handler {
	return &componentHandler{component: h.component, attrs: h.attrs, group: name}
}

// Aggregate counts a high-frequency event; a summary is logged per flush interval.
func Aggregate(component, event string, fields ...slog.Attr) {
	globalMu.RLock()
	agg := globalAgg
	globalMu.RUnlock()
	if agg != nil {
		agg.Record(component, event, fields...)
	}
}

// DumpRingBuffer writes the recent log records to path.
func DumpRingBuffer(path string) error {
	globalMu.RLock()
	ring := globalRing
	globalMu.RUnlock()
	if ring == nil {
		return nil
	}
	return ring.DumpToFile(path)
}

// Shutdown flushes pending aggregates and closes the log file.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalAgg != nil {
		globalAgg.Stop()
		globalAgg = nil
	}
	if globalPprof != nil {
		globalPprof.close()
		globalPprof = nil
	}
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
	globalLogger = nil
	globalRing = nil
}
