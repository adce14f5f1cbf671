// Package log provides structured logging for pipeline components, built on
// zerolog. Components obtain a named logger once and attach key/value context
// per call:
//
//	logger := log.GetLoggerWithName("pipeline")
//	logger.Info("training started", "samples", n, "features", p)
//
// The level defaults to info and can be changed globally with SetLevel or the
// HOUSEPRICE_LOG_LEVEL environment variable (trace, debug, info, warn, error).
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface handed to pipeline components.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

var (
	mu   sync.RWMutex
	base = newBase(os.Stderr)
)

func newBase(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	lvl := zerolog.InfoLevel
	if s := os.Getenv("HOUSEPRICE_LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(s); err == nil {
			lvl = parsed
		}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// SetLevel changes the global log level.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(level)
}

// SetOutput redirects all loggers to w. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newBase(w)
}

// GetLoggerWithName returns a Logger tagged with the component name.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zerologAdapter{l: base.With().Str("component", name).Logger()}
}

type zerologAdapter struct {
	l zerolog.Logger
}

func (z *zerologAdapter) Debug(msg string, keyvals ...interface{}) {
	withFields(z.l.Debug(), keyvals).Msg(msg)
}

func (z *zerologAdapter) Info(msg string, keyvals ...interface{}) {
	withFields(z.l.Info(), keyvals).Msg(msg)
}

func (z *zerologAdapter) Warn(msg string, keyvals ...interface{}) {
	withFields(z.l.Warn(), keyvals).Msg(msg)
}

func (z *zerologAdapter) Error(msg string, keyvals ...interface{}) {
	withFields(z.l.Error(), keyvals).Msg(msg)
}

// withFields attaches keyvals as alternating key/value pairs. A trailing key
// without a value is attached with a nil value rather than dropped.
func withFields(ev *zerolog.Event, keyvals []interface{}) *zerolog.Event {
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(keyvals) {
			ev = ev.Interface(key, keyvals[i+1])
		} else {
			ev = ev.Interface(key, nil)
		}
	}
	return ev
}
