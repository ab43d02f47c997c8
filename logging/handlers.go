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
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[37m"
	colorWhite  = "\033[97m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// consoleHandler writes one colored line per record. Not meant for log
// aggregation; use [JSONHandler] there.
type consoleHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	output io.Writer
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &consoleHandler{opts: opts, mu: &sync.Mutex{}, output: w}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(colorDim + r.Time.Format("15:04:05.000") + colorReset + " ")
	b.WriteString(h.levelColor(r.Level) + colorBold + fmt.Sprintf("%-5s", r.Level.String()) + colorReset + " ")
	b.WriteString(colorWhite + r.Message + colorReset)

	for _, a := range h.attrs {
		h.appendAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.prepare(a))
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		if src := recordSource(r.PC); src != "" {
			b.WriteString(" " + colorGray + "(" + src + ")" + colorReset)
		}
	}
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.output, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefixed := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		prefixed = append(prefixed, h.prepare(a))
	}
	c := *h
	c.attrs = append(slices.Clone(h.attrs), prefixed...)
	return &c
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(slices.Clone(h.groups), name)
	return &c
}

// prepare applies ReplaceAttr and prefixes the key with the open groups.
func (h *consoleHandler) prepare(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(h.groups, a)
	}
	if a.Key != "" && len(h.groups) > 0 {
		a.Key = strings.Join(h.groups, ".") + "." + a.Key
	}
	return a
}

func (h *consoleHandler) levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

func (h *consoleHandler) appendAttr(b *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	b.WriteString(" " + a.Key + "=")
	switch v := a.Value.Resolve().Any().(type) {
	case string:
		b.WriteString(v)
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'f', 2, 64))
	case time.Duration:
		b.WriteString(v.String())
	case time.Time:
		b.WriteString(v.Format(time.RFC3339))
	case error:
		b.WriteString(v.Error())
	default:
		b.WriteString(fmt.Sprint(v))
	}
}

// recordSource returns "file.go:line" for pc.
func recordSource(pc uintptr) string {
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}
