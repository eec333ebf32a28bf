package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Log source tags used in structured logger contexts.
const (
	SourceApp       = "app"
	SourceConverter = "converter"
	SourcePivot     = "pivot"
	SourcePipeline  = "pipeline"
	SourceUI        = "ui"
)

var (
	mu         sync.Mutex
	baseLogger = log.NewWithOptions(io.Discard, log.Options{})
	logFile    *os.File
)

// Options configures Init.
type Options struct {
	File    string // log file path; empty disables file output
	Level   string // debug, info, warn, error
	Verbose bool   // mirror logs to stderr at debug level
}

// Init configures the base logger. The picker owns stdout, so logs never go there.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	var writers []io.Writer

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		writers = append(writers, f)
	}

	if opts.Verbose {
		writers = append(writers, os.Stderr)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}

	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = log.DebugLevel
	}

	baseLogger = log.NewWithOptions(out, log.Options{
		TimeFunction:    log.NowUTC,
		TimeFormat:      time.RFC3339Nano,
		Level:           level,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})

	return nil
}

// Close closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	baseLogger = log.NewWithOptions(io.Discard, log.Options{})
}

// Logger returns a logfmt logger tagged with the provided source.
func Logger(source string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return baseLogger.With("source", source)
}
