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

package recovery

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
)

func panicking(v any) func(*message.Request) (*message.Response, error) {
	return func(*message.Request) (*message.Response, error) {
		panic(v)
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	res, err := New(WithoutLogging()).Handle(message.MustNewRequest(http.MethodGet, "/"),
		func(*message.Request) (*message.Response, error) { return message.HTML("ok"), nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", string(res.Body()))
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		message string
	}{
		{"string", "test panic", "panic: test panic"},
		{"error", errors.New("boom"), "panic: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := New(WithoutLogging()).Handle(message.MustNewRequest(http.MethodGet, "/"), panicking(tt.value))
			assert.Nil(t, res)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, serrors.KindInternal, serrors.KindOf(err))
			assert.Equal(t, http.StatusInternalServerError, serrors.StatusOf(err))
		})
	}
}

func TestRecovery_CustomHandler(t *testing.T) {
	t.Parallel()

	var got any
	h := New(WithoutLogging(), WithHandler(func(_ *message.Request, rec any) (*message.Response, error) {
		got = rec
		res := message.HTML("sorry")
		res.SetStatus(http.StatusServiceUnavailable)
		return res, nil
	}))

	res, err := h.Handle(message.MustNewRequest(http.MethodGet, "/"), panicking("custom"))
	require.NoError(t, err)
	assert.Equal(t, "custom", got)
	assert.Equal(t, http.StatusServiceUnavailable, res.Status())
}

func TestRecovery_Logging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      []Option
		wantStack bool
	}{
		{"with stack", nil, true},
		{"without stack", []Option{WithStackTrace(false)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			opts := append([]Option{WithLogger(logger), WithStackSize(1 << 10)}, tt.opts...)

			_, err := New(opts...).Handle(message.MustNewRequest(http.MethodGet, "/boom"), panicking("logged"))
			require.Error(t, err)

			out := buf.String()
			assert.Contains(t, out, "panic recovered")
			assert.Contains(t, out, "path=/boom")
			assert.Equal(t, tt.wantStack, bytes.Contains(buf.Bytes(), []byte("stack=")))
		})
	}
}

func TestRecovery_MarksSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "request")

	req := message.MustNewRequest(http.MethodGet, "/", message.WithContext(ctx))
	_, err := New(WithoutLogging()).Handle(req, panicking("traced"))
	require.Error(t, err)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "Error", spans[0].Status().Code.String())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "true", attrs["exception.escaped"])
	assert.Equal(t, "string", attrs["exception.type"])
	assert.Equal(t, "traced", attrs["exception.message"])
}
