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
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the name of the tracer handed out by [Tracer].
const InstrumentationName = "github.com/szepeviktor/snicco"

// ErrInvalidSampleRate is returned for a sample rate outside [0, 1].
var ErrInvalidSampleRate = errors.New("sample rate must be between 0 and 1")

// Tracer owns the tracer provider used by the kernel.
type Tracer struct {
	serviceName    string
	serviceVersion string
	sampleRate     float64
	output         io.Writer
	disabled       bool

	provider trace.TracerProvider
	sdk      *sdktrace.TracerProvider
	exporter sdktrace.SpanExporter
	tracer   trace.Tracer
}

// New creates a Tracer. Without [WithStdout] or [WithExporter] spans are
// sampled but not exported.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:    "snicco",
		serviceVersion: "unknown",
		sampleRate:     1.0,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sampleRate < 0 || t.sampleRate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, t.sampleRate)
	}

	switch {
	case t.disabled:
		t.provider = noop.NewTracerProvider()
	case t.provider != nil:
		// supplied by WithTracerProvider
	default:
		if err := t.initSDK(); err != nil {
			return nil, err
		}
	}

	t.tracer = t.provider.Tracer(InstrumentationName)
	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic("tracing initialization failed: " + err.Error())
	}
	return t
}

func (t *Tracer) initSDK() error {
	if t.exporter == nil && t.output != nil {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(t.output))
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		t.exporter = exporter
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(t.serviceName),
			semconv.ServiceVersion(t.serviceVersion),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}
	if t.exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithSyncer(t.exporter))
	}

	t.sdk = sdktrace.NewTracerProvider(tpOpts...)
	t.provider = t.sdk
	return nil
}

// Provider returns the tracer provider.
func (t *Tracer) Provider() trace.TracerProvider { return t.provider }

// Tracer returns the instrumentation tracer.
func (t *Tracer) Tracer() trace.Tracer { return t.tracer }

// ServiceName returns the service name recorded on the resource.
func (t *Tracer) ServiceName() string { return t.serviceName }

// StartSpan starts a span named name.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// FinishSpan records err on span, if any, and ends it.
func FinishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Attribute converts a primitive value into a span attribute. Other types are
// formatted with %v.
func Attribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

// TraceID returns the trace id of the span in ctx, or "".
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// SpanID returns the span id of the span in ctx, or "".
func SpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return ""
}

// Shutdown flushes and stops the SDK provider created by [New]. Providers
// supplied with [WithTracerProvider] are left alone.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdk == nil {
		return nil
	}
	if err := t.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	return nil
}
