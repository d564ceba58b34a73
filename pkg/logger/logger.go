// Package logger is the process-wide structured logger.
//
// Calls take a message followed by alternating key/value pairs:
//
//	logger.Info("Server starting", "address", addr)
//	logger.Error("Failed to load dataset", err)
//
// A bare error anywhere in the argument list is logged under "error".
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Environment string
	Level       string
	Output      io.Writer
}

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the logger for the given environment. "development" gets a
// console writer at debug level, anything else JSON lines at info level.
func Init(environment string) {
	InitWithConfig(Config{Environment: environment})
}

func InitWithConfig(cfg Config) {
	dev := strings.EqualFold(cfg.Environment, "development")

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if dev && cfg.Output == nil {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
			level = parsed
		}
	}

	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, args ...any) {
	withFields(current().Debug(), args).Msg(msg)
}

func Info(msg string, args ...any) {
	withFields(current().Info(), args).Msg(msg)
}

func Warn(msg string, args ...any) {
	withFields(current().Warn(), args).Msg(msg)
}

func Error(msg string, args ...any) {
	withFields(current().Error(), args).Msg(msg)
}

// Fatal logs and exits the process with status 1.
func Fatal(msg string, args ...any) {
	withFields(current().Fatal(), args).Msg(msg)
}

func withFields(ev *zerolog.Event, args []any) *zerolog.Event {
	if ev == nil {
		return ev
	}
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			ev = ev.Err(v)
			continue
		case string:
			if i+1 < len(args) {
				if err, ok := args[i+1].(error); ok {
					ev = ev.AnErr(v, err)
				} else {
					ev = ev.Interface(v, args[i+1])
				}
				i++
				continue
			}
		}
		ev = ev.Interface(fmt.Sprintf("arg%d", i), args[i])
	}
	return ev
}
