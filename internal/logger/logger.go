package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the package logger. format is "json" or "pretty".
func Init(level, format string) {
	var w io.Writer = os.Stdout
	if format == "pretty" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// SetOutput redirects log output, keeping the current level.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

// Info logs msg with optional key/value pairs: Info("booked", "member_id", 7).
func Info(msg string, kv ...interface{}) {
	log.Info().Fields(kv).Msg(msg)
}

func Infof(format string, v ...interface{}) {
	log.Info().Msg(fmt.Sprintf(format, v...))
}

func Warn(msg string, kv ...interface{}) {
	log.Warn().Fields(kv).Msg(msg)
}

func Error(msg string, kv ...interface{}) {
	log.Error().Fields(kv).Msg(msg)
}

func Errorf(format string, v ...interface{}) {
	log.Error().Msg(fmt.Sprintf(format, v...))
}

func Debug(msg string, kv ...interface{}) {
	log.Debug().Fields(kv).Msg(msg)
}

func Debugf(format string, v ...interface{}) {
	log.Debug().Msg(fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...interface{}) {
	log.Fatal().Msg(fmt.Sprintf(format, v...))
}

// Entry is a logger carrying preset fields.
type Entry struct {
	l zerolog.Logger
}

func WithError(err error) Entry {
	return Entry{l: log.With().Err(err).Logger()}
}

func WithFields(fields map[string]interface{}) Entry {
	return Entry{l: log.With().Fields(fields).Logger()}
}

func (e Entry) Info(msg string) {
	e.l.Info().Msg(msg)
}

func (e Entry) Warn(msg string) {
	e.l.Warn().Msg(msg)
}

func (e Entry) Error(msg string) {
	e.l.Error().Msg(msg)
}
