//go:build !windows

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/claude-sessions/claude-sessions/internal/logging"
)

// startDumpHandler writes the in-memory log ring to appDir on SIGUSR1.
func startDumpHandler(appDir string) {
	if appDir == "" {
		return
	}
	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	go func() {
		for range usr1 {
			path := filepath.Join(appDir, fmt.Sprintf("crash-dump-%d.jsonl", time.Now().Unix()))
			if err := logging.DumpRingBuffer(path); err != nil {
				mainLog.Error("crash_dump_failed", slog.String("error", err.Error()))
				continue
			}
			mainLog.Info("crash_dump_written", slog.String("path", path))
		}
	}()
}
