// Package logger wires up the process-wide zerolog logger.
//
// Call Init once from main; every component receives the logger by value
// after that, so there is no global lookup on the hot path. Get exists for
// the rare spot that cannot be handed a logger explicitly.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the output format and verbosity of the logger.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn or error.
	// Anything else falls back to info.
	Level string
	// Pretty switches to colourised console output for local development.
	// Production deployments keep it off and emit one JSON object per line.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the logger. Calls after the first are no-ops and return the
// logger built by the first call.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Str("service", "edge-gateway").
			Logger()

		initialized = true
	})
	return instance
}

// Get returns the logger built by Init, panicking if Init never ran.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get called before Init")
	}
	return instance
}

// Reset discards the singleton so tests can re-run Init with fresh options.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
