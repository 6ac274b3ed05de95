package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where log output goes.
type Options struct {
	// Level is a zerolog level name; unknown values fall back to info.
	Level string
	// Debug forces the debug level regardless of Level.
	Debug bool
	// File, when set, receives JSON lines appended to it.
	File string
	// Console receives human-readable output. Defaults to os.Stdout.
	Console io.Writer
	// NoColor disables ANSI colours on the console writer.
	NoColor bool
}

// New builds a logger writing to the console and, optionally, to an
// append-mode file. The returned close func releases the file and is safe to
// call when no file was opened.
func New(opts Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	level := ParseLevel(opts.Level)
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}}

	var file *os.File
	if path := strings.TrimSpace(opts.File); path != "" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return zerolog.Nop(), noop, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, file)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if file == nil {
		return logger, noop, nil
	}
	return logger, file.Close, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
