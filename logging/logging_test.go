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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_HandlerTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opt      Option
		contains string
	}{
		{name: "json", opt: WithJSONHandler(), contains: `"msg":"route matched"`},
		{name: "text", opt: WithTextHandler(), contains: `msg="route matched"`},
		{name: "console", opt: WithConsoleHandler(), contains: "route matched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger, err := New(tt.opt, WithOutput(&buf))
			require.NoError(t, err)

			logger.Logger().Info("route matched", "route", "home")
			assert.Contains(t, buf.String(), tt.contains)
			assert.Contains(t, buf.String(), "home")
		})
	}
}

func TestNew_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	_, err := New(WithHandlerType("xml"))
	require.ErrorIs(t, err, ErrInvalidHandler)

	_, err = New(WithOutput(nil))
	require.ErrorIs(t, err, ErrNilOutput)

	assert.Panics(t, func() { MustNew(WithHandlerType("xml")) })
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	for _, handler := range []Option{WithJSONHandler(), WithConsoleHandler()} {
		var buf bytes.Buffer
		logger := MustNew(handler, WithOutput(&buf))

		logger.Logger().Info("forbidden redirect", "signature", "abc123", "host", "evil.com")
		out := buf.String()
		assert.NotContains(t, out, "abc123")
		assert.Contains(t, out, redacted)
		assert.Contains(t, out, "evil.com")
	}
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	logger, buf := NewTestLogger()
	derived := logger.With("component", "kernel")

	logger.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, logger.Level())

	derived.Info("dropped")
	derived.Warn("kept")

	entries, err := ParseJSONLogEntries(buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "kernel", entries[0].Attrs["component"])
}

func TestLogger_ServiceName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf), WithServiceName("shop"))
	logger.Logger().Info("hello")

	assert.Equal(t, "shop", logger.ServiceName())
	assert.Contains(t, buf.String(), `"service":"shop"`)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "trace", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsoleHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithConsoleHandler(), WithOutput(&buf))

	logger.Logger().WithGroup("route").With("name", "home").Info("matched", "err", errors.New("boom"))
	line := buf.String()
	assert.Contains(t, line, "route.name=home")
	assert.Contains(t, line, "err=boom")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestWithTrace(t *testing.T) {
	t.Parallel()

	logger, buf := NewTestLogger()

	WithTrace(context.Background(), logger.Logger()).Info("no span")

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	WithTrace(ctx, logger.Logger()).Info("with span")
	span.End()

	entries, err := ParseJSONLogEntries(buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.NotContains(t, entries[0].Attrs, fieldTraceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[1].Attrs[fieldTraceID])
	assert.Equal(t, span.SpanContext().SpanID().String(), entries[1].Attrs[fieldSpanID])
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	assert.False(t, Discard().Enabled(context.Background(), LevelError))
}
