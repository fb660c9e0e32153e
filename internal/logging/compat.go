package logging

import (
	"bytes"
	"log/slog"
	"strings"
)

// BridgeWriter forwards stdlib log output into slog so that third-party
// packages calling log.Printf never write to the terminal the browser owns.
// A leading "[CATEGORY] " prefix becomes the component attribute.
type BridgeWriter struct {
	logger    *slog.Logger
	component string
}

// NewBridgeWriter creates a bridge using defaultComponent when a line has no prefix.
func NewBridgeWriter(defaultComponent string) *BridgeWriter {
	return &BridgeWriter{
		logger:    Logger(),
		component: defaultComponent,
	}
}

// Write implements io.Writer; each call is one record.
func (bw *BridgeWriter) Write(p []byte) (int, error) {
	n := len(p)
	msg := string(bytes.TrimSpace(p))
	if msg == "" {
		return n, nil
	}
	msg = stripLogTimestamp(msg)

	component := bw.component
	if strings.HasPrefix(msg, "[") {
		if end := strings.Index(msg, "] "); end > 0 {
			component = strings.ToLower(msg[1:end])
			msg = msg[end+2:]
		}
	}

	bw.logger.Info(msg, slog.String("component", canonicalComponent(component)))
	return n, nil
}

// stripLogTimestamp drops the "15:04:05" or "15:04:05.000000" prefix the
// stdlib logger adds; slog records carry their own time.
func stripLogTimestamp(s string) string {
	if len(s) > 16 && s[2] == ':' && s[5] == ':' && s[8] == '.' && s[15] == ' ' {
		return s[16:]
	}
	if len(s) > 9 && s[2] == ':' && s[5] == ':' && s[8] == ' ' {
		return s[9:]
	}
	return s
}

func canonicalComponent(cat string) string {
	switch cat {
	case "scan", "scanner", "index", "recover":
		return CompScan
	case "search", "fuzzy":
		return CompSearch
	case "cache":
		return CompCache
	case "ui", "tui", "browser":
		return CompUI
	case "launch", "launcher", "terminal":
		return CompLaunch
	case "watch", "watcher", "fsnotify":
		return CompWatch
	case "config":
		return CompConfig
	default:
		return cat
	}
}
