// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

// Level represents log level.
type Level = slog.Level

const (
	// LevelDebug is the debug log level.
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const redacted = "***REDACTED***"

// Logger owns a configured [slog.Logger]. The level can be changed at
// runtime with [Logger.SetLevel]; everything else is fixed by [New].
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar
	serviceName string
	addSource   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	slogger *slog.Logger
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

func defaultLogger() *Logger {
	l := &Logger{
		handlerType: JSONHandler,
		output:      os.Stdout,
	}
	l.level.Set(LevelInfo)
	return l
}

// New creates a Logger with the given options. It never touches the global
// slog default.
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()
	for _, opt := range opts {
		opt(l)
	}

	if l.output == nil {
		return nil, fmt.Errorf("invalid configuration: %w", ErrNilOutput)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.buildReplaceAttr(),
	}

	var handler slog.Handler
	switch l.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(l.output, handlerOpts)
	case TextHandler:
		handler = slog.NewTextHandler(l.output, handlerOpts)
	case ConsoleHandler:
		handler = newConsoleHandler(l.output, handlerOpts)
	default:
		return nil, fmt.Errorf("invalid configuration: %w: %s", ErrInvalidHandler, l.handlerType)
	}

	l.slogger = slog.New(handler)
	if l.serviceName != "" {
		l.slogger = l.slogger.With("service", l.serviceName)
	}
	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name (debug, info, warn, error) to a [Level].
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}

// buildReplaceAttr redacts credential-like attributes before the user
// replacer runs.
func (l *Logger) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch strings.ToLower(a.Key) {
		case "password", "token", "secret", "signature", "authorization":
			return slog.String(a.Key, redacted)
		}
		if l.replaceAttr != nil {
			return l.replaceAttr(groups, a)
		}
		return a
	}
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger
}

// With returns a [slog.Logger] with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.slogger.With(args...)
}

// SetLevel changes the minimum level of every logger derived from l.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level)
}

// Level returns the current minimum log level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the service name.
func (l *Logger) ServiceName() string {
	return l.serviceName
}

// Enabled reports whether records at level are emitted.
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slogger.Enabled(ctx, level)
}
