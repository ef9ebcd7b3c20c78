/*
Package logx wraps zerolog for the client.

Logs always go to stderr so they never mix with tables and prompts on stdout. A
development build writes human-readable debug lines; everything else writes JSON at
warn level, which keeps routine request logs out of an interactive session.
*/
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger configures the process-wide logger once at start-up.
func InitGlobalLogger(isDevelopment bool) {
	log.Logger = newLogger(os.Stderr, isDevelopment)
}

func newLogger(out io.Writer, isDevelopment bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if isDevelopment {
		console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return zerolog.New(console).Level(zerolog.DebugLevel).
			With().Timestamp().Caller().Logger()
	}
	return zerolog.New(out).Level(zerolog.WarnLevel).
		With().Timestamp().Caller().Logger()
}

// Logger exposes the global logger for callers that build events themselves.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// Debug logs msg with key/value fields.
func Debug(msg string, fields ...any) {
	emit(Logger().Debug(), nil, msg, fields)
}

// Info logs msg with key/value fields.
func Info(msg string, fields ...any) {
	emit(Logger().Info(), nil, msg, fields)
}

// Warn logs msg with key/value fields.
func Warn(msg string, fields ...any) {
	emit(Logger().Warn(), nil, msg, fields)
}

// Error logs err and msg with key/value fields.
func Error(err error, msg string, fields ...any) {
	emit(Logger().Error(), err, msg, fields)
}

// emit attaches err and fields to ev and sends it, attributing the line to the caller
// of the exported helper. An odd field list is dropped whole, since zerolog would
// otherwise pair keys with the wrong values.
func emit(ev *zerolog.Event, err error, msg string, fields []any) {
	if ev == nil {
		return
	}
	if len(fields)%2 != 0 {
		ev = ev.Int("dropped_fields", len(fields))
		fields = nil
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Fields(fields).CallerSkipFrame(2).Msg(msg)
}
