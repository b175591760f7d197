package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	corelogger "github.com/greenfleet/greenfleet/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.NopLogger

// Options controls the output of every logger created by New.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Format is "json" or "console". When empty, APP_ENV=dev selects console.
	Format string
	Out    io.Writer
}

var (
	mu      sync.RWMutex
	current = Options{Out: os.Stdout}
)

// Configure sets the level and format used by subsequently created loggers.
func Configure(o Options) error {
	lvl, err := parseLevel(o.Level)
	if err != nil {
		return err
	}
	switch strings.ToLower(o.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", o.Format)
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	zerolog.SetGlobalLevel(lvl)
	mu.Lock()
	current = o
	mu.Unlock()
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// New returns a Logger tagged with the given component.
func New(component string) Logger {
	mu.RLock()
	o := current
	mu.RUnlock()
	return NewZerologLogger(component, o)
}
