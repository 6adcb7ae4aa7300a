package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/On-Jun9/MetaSpy/pkg/types"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a Logger. An empty FilePath disables the log file.
type Options struct {
	FilePath   string
	JSON       bool
	Text       bool
	MaxSizeMB  int
	MaxBackups int
	Console    io.Writer
}

type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    io.WriteCloser
	logJSON bool
	logText bool
	runID   string
}

func New(opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	l := &Logger{
		console: console,
		logJSON: opts.JSON,
		logText: opts.Text,
	}
	if opts.FilePath == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
		return nil, err
	}

	l.file = &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		LocalTime:  true,
	}
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{console: io.Discard}
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetRunID tags subsequent file entries with the run identifier.
func (l *Logger) SetRunID(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runID = id
}

type LogEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Level     string        `json:"level"`
	Message   string        `json:"message"`
	RunID     string        `json:"run_id,omitempty"`
	File      string        `json:"file,omitempty"`
	Fields    int           `json:"fields,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

func (l *Logger) LogRecord(rec types.Record, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   "analyzed: " + rec.File,
		RunID:     l.runID,
		File:      rec.File,
		Duration:  duration,
	}
	if rec.Metadata != nil {
		entry.Fields = rec.Metadata.Len()
	}

	if cause, failed := rec.Failure(); failed {
		entry.Level = "ERROR"
		entry.Message = "extraction failed: " + rec.File
		entry.Error = cause
		entry.Fields = 0
	}

	l.writeEntry(entry)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   msg,
		RunID:     l.runID,
	})
}

// Warn prints msg to the console and records it in the log file.
func (l *Logger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, msg)
	l.writeEntry(LogEntry{
		Timestamp: time.Now(),
		Level:     "WARN",
		Message:   msg,
		RunID:     l.runID,
	})
}

func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{
		Timestamp: time.Now(),
		Level:     "ERROR",
		Message:   msg,
		RunID:     l.runID,
		Error:     err.Error(),
	})
}

// Console prints a line to the console only.
func (l *Logger) Console(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, format+"\n", args...)
}

func (l *Logger) writeEntry(entry LogEntry) {
	if l.file == nil {
		return
	}

	if l.logJSON {
		data, _ := json.Marshal(entry)
		l.file.Write(append(data, '\n'))
	}

	if l.logText {
		line := fmt.Sprintf("[%s] %s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.Message,
		)
		if entry.Error != "" {
			line = fmt.Sprintf("[%s] %s %s - Error: %s\n",
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.Level,
				entry.Message,
				entry.Error,
			)
		}
		io.WriteString(l.file, line)
	}
}

func (l *Logger) Summary(summary types.RunSummary) {
	fmt.Fprintln(l.console, "\n=== MetaSpy Summary ===")
	fmt.Fprintf(l.console, "Inputs:         %d\n", summary.Inputs)
	fmt.Fprintf(l.console, "Analyzed:       %d\n", summary.Analyzed)
	fmt.Fprintf(l.console, "Failed:         %d\n", summary.Failed)
	fmt.Fprintf(l.console, "Missing:        %d\n", summary.Missing)
	fmt.Fprintf(l.console, "Unsupported:    %d\n", summary.Unsupported)
	fmt.Fprintf(l.console, "Duration:       %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintln(l.console, "=======================")
}
