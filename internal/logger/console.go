// Package logger provides logging implementations for projdump runs.
//
// ConsoleLogger writes levelled, timestamped lines and run summaries to a
// writer (normally stderr, keeping stdout free for the confirmation line).
// Implementations are thread-safe.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/projdump/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// fatih/color already honors NO_COLOR and non-TTY output
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}

	return "info"
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel logs a message at the specified level if filtering allows it.
// Format: "[HH:MM:SS] [LEVEL] <message>"
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogRunStart logs the start of a dump run at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] run <id>: <n> targets under <root>"
func (cl *ConsoleLogger) LogRunStart(runID string, root string, targets int) {
	cl.LogDebug(fmt.Sprintf("run %s: %d targets under %s", runID, targets, root))
}

// LogFileDumped logs one FILE section at DEBUG level, noting lossy decoding.
func (cl *ConsoleLogger) LogFileDumped(file models.ResolvedFile, replaced bool) {
	if replaced {
		cl.LogDebug(fmt.Sprintf("dumped %s (invalid UTF-8 replaced)", file.RelPath))
		return
	}
	cl.LogDebug(fmt.Sprintf("dumped %s", file.RelPath))
}

// LogMissing logs a missing target at WARN level.
func (cl *ConsoleLogger) LogMissing(target models.Target) {
	cl.LogWarn(fmt.Sprintf("missing target %s", target))
}

// LogUnreadable logs a resolved file that could not be read at WARN level.
func (cl *ConsoleLogger) LogUnreadable(relPath string, err error) {
	cl.LogWarn(fmt.Sprintf("skipped unreadable file %s: %v", relPath, err))
}

// LogSummary logs the run summary at INFO level.
// Format: "[HH:MM:SS] Dumped <n> files (<bytes>) in <duration>, <m> missing"
func (cl *ConsoleLogger) LogSummary(result *models.Result, duration time.Duration) {
	if cl.writer == nil || result == nil {
		return
	}

	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	files := fmt.Sprintf("%d files", len(result.Files))
	missing := fmt.Sprintf("%d missing", len(result.Missing))
	if cl.colorOutput {
		files = color.New(color.FgGreen).Sprint(files)
		if len(result.Missing) > 0 {
			missing = color.New(color.FgYellow).Sprint(missing)
		}
	}

	output := fmt.Sprintf("[%s] Dumped %s (%s) in %s, %s", ts, files, formatBytes(result.BytesWritten()), formatDuration(duration), missing)
	if n := len(result.Unreadable); n > 0 {
		unreadable := fmt.Sprintf("%d unreadable", n)
		if cl.colorOutput {
			unreadable = color.New(color.FgRed).Sprint(unreadable)
		}
		output += ", " + unreadable
	}

	cl.writer.Write([]byte(output + "\n"))
}

// timestamp returns the current time formatted as HH:MM:SS
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a short human-readable string.
// Examples: "12ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder < time.Second {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, remainder/time.Second)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// NoOpLogger discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string) {}
func (n *NoOpLogger) LogWarn(message string) {}
func (n *NoOpLogger) LogError(message string) {}
func (n *NoOpLogger) LogRunStart(runID string, root string, targets int) {}
func (n *NoOpLogger) LogFileDumped(file models.ResolvedFile, replaced bool) {}
func (n *NoOpLogger) LogMissing(target models.Target) {}
func (n *NoOpLogger) LogUnreadable(relPath string, err error) {}
func (n *NoOpLogger) LogSummary(result *models.Result, duration time.Duration) {}
