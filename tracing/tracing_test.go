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

package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(WithSampleRate(1.5))
	require.ErrorIs(t, err, ErrInvalidSampleRate)

	assert.Panics(t, func() { MustNew(WithSampleRate(-1)) })
}

func TestTestingTracer_RecordsSpans(t *testing.T) {
	t.Parallel()

	tracer, spans := TestingTracer(t)

	_, ok := tracer.StartSpan(context.Background(), "kernel.run", Attribute("route.name", "home"))
	FinishSpan(ok, nil)

	_, failed := tracer.StartSpan(context.Background(), "kernel.send")
	FinishSpan(failed, errors.New("emit failed"))

	ended := spans.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "kernel.run", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("route.name", "home"))

	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "emit failed", ended[1].Status().Description)
	require.Len(t, ended[1].Events(), 1)
}

func TestTraceAndSpanID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TraceID(context.Background()))
	assert.Empty(t, SpanID(context.Background()))

	tracer, _ := TestingTracer(t)
	ctx, span := tracer.StartSpan(context.Background(), "op")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), TraceID(ctx))
	assert.Equal(t, span.SpanContext().SpanID().String(), SpanID(ctx))
}

func TestWithStdout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tracer, err := New(WithStdout(&buf), WithServiceName("shop"))
	require.NoError(t, err)

	_, span := tracer.StartSpan(context.Background(), "redirect.forbidden")
	span.End()
	require.NoError(t, tracer.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "redirect.forbidden")
	assert.Equal(t, "shop", tracer.ServiceName())
}

func TestWithNoop(t *testing.T) {
	t.Parallel()

	tracer := MustNew(WithNoop())
	ctx, span := tracer.StartSpan(context.Background(), "op")
	span.End()

	assert.False(t, span.IsRecording())
	assert.Empty(t, TraceID(ctx))
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestAttribute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value any
		want  attribute.KeyValue
	}{
		{value: "a", want: attribute.String("k", "a")},
		{value: 3, want: attribute.Int("k", 3)},
		{value: int64(4), want: attribute.Int64("k", 4)},
		{value: 1.5, want: attribute.Float64("k", 1.5)},
		{value: true, want: attribute.Bool("k", true)},
		{value: []string{"GET", "HEAD"}, want: attribute.StringSlice("k", []string{"GET", "HEAD"})},
		{value: struct{ A int }{1}, want: attribute.String("k", "{1}")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Attribute("k", tt.value))
	}
}
