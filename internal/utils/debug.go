package utils

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	debugFile *os.File
	debugOnce sync.Once
	logsDir   atomic.Value // string
	verbose   atomic.Bool

	diagMu  sync.Mutex
	diagOut io.Writer = os.Stderr
)

// Logger receives the non-fatal observations emitted while deriving filenames.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type processLogger struct{}

type discardLogger struct{}

// Diagnostics is the process-wide Logger backed by Warnf/Errorf.
var Diagnostics Logger = processLogger{}

// Discard drops every observation.
var Discard Logger = discardLogger{}

func (processLogger) Warnf(format string, args ...any)  { Warnf(format, args...) }
func (processLogger) Errorf(format string, args ...any) { Errorf(format, args...) }

func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}

func ConfigureDebug(dir string) {
	logsDir.Store(dir)
}

// SetVerbose enables or disables verbose logging
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// IsVerbose returns true if verbose logging is enabled
func IsVerbose() bool {
	return verbose.Load()
}

// SetDiagnosticsOutput redirects warning and error lines. A nil writer silences them.
func SetDiagnosticsOutput(w io.Writer) {
	diagMu.Lock()
	defer diagMu.Unlock()
	if w == nil {
		w = io.Discard
	}
	diagOut = w
}

// Warnf reports a recoverable condition on the diagnostics output.
func Warnf(format string, args ...any) {
	emit("warning", format, args...)
}

// Errorf reports a failure that was handled by falling back.
func Errorf(format string, args ...any) {
	emit("error", format, args...)
}

func emit(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diagMu.Lock()
	fmt.Fprintf(diagOut, "%s: %s\n", level, msg)
	diagMu.Unlock()
	Debug("%s: %s", level, msg)
}

func Debug(format string, args ...any) {
	if !IsVerbose() {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	debugOnce.Do(func() {
		dir, _ := logsDir.Load().(string)
		if dir == "" {
			return
		}
		_ = os.MkdirAll(dir, 0755)
		debugFile, _ = os.Create(filepath.Join(dir, fmt.Sprintf("debug-%s.log", time.Now().Format("20060102-150405"))))
	})
	if debugFile != nil {
		fmt.Fprintf(debugFile, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
	}
}

// CleanupLogs removes old log files, keeping only the most recent retentionCount files
func CleanupLogs(retentionCount int) {
	if retentionCount < 0 {
		return // Keep all logs
	}

	dir, _ := logsDir.Load().(string)
	if dir == "" {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []fs.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "debug-") && strings.HasSuffix(entry.Name(), ".log") {
			logs = append(logs, entry)
		}
	}

	// Names are debug-YYYYMMDD-HHMMSS.log, so reverse lexical order is newest first.
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Name() > logs[j].Name()
	})

	if len(logs) <= retentionCount {
		return
	}

	for _, log := range logs[retentionCount:] {
		_ = os.Remove(filepath.Join(dir, log.Name()))
	}
}
