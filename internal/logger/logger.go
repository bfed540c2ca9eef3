// Package logger wraps zerolog behind the field-map API shared by the HTTP
// server and the carparkctl batch jobs.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Fields are key/value pairs attached to a single log line.
type Fields = map[string]interface{}

// Logger wraps zerolog.Logger and provides structured logging capabilities.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger for the given environment writing to stdout.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter creates a Logger that writes to out. Development logs are
// human readable at debug level, colored only when out is stdout; any other
// environment logs JSON at info level.
func NewWithWriter(env string, out io.Writer) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if env != "development" {
		return &Logger{zlog: zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()}
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    out != os.Stdout,
	}
	return &Logger{zlog: zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards everything. Batch jobs use it unless
// --verbose is set.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Level reports the minimum level that is written.
func (l *Logger) Level() zerolog.Level {
	return l.zlog.GetLevel()
}

func (l *Logger) Debug(msg string, fields Fields) {
	l.zlog.Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields Fields) {
	l.zlog.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields Fields) {
	l.zlog.Warn().Fields(fields).Msg(msg)
}

// Error logs msg at error level with err under the "error" key.
func (l *Logger) Error(msg string, err error, fields Fields) {
	l.zlog.Error().Err(err).Fields(fields).Msg(msg)
}

// Fatal logs msg and exits the process with status 1.
func (l *Logger) Fatal(msg string, err error, fields Fields) {
	l.zlog.Fatal().Err(err).Fields(fields).Msg(msg)
}

// With returns a child logger that adds fields to every line.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{zlog: l.zlog.With().Fields(fields).Logger()}
}

// WithRequestID returns a child logger tagged with an HTTP request id.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.With(Fields{"request_id": requestID})
}

// WithJob returns a child logger tagged with the batch job being run.
func (l *Logger) WithJob(job string) *Logger {
	return l.With(Fields{"job": job})
}
