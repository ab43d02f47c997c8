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
	"io"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithTracerProvider uses provider instead of creating an SDK provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) { t.provider = provider }
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) { t.serviceName = name }
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) { t.serviceVersion = version }
}

// WithSampleRate sets the ratio of sampled root spans, from 0 to 1.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) { t.sampleRate = rate }
}

// WithStdout exports spans as JSON to w.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) { t.output = w }
}

// WithExporter exports spans synchronously to exporter.
func WithExporter(exporter sdktrace.SpanExporter) Option {
	return func(t *Tracer) { t.exporter = exporter }
}

// WithNoop disables tracing.
func WithNoop() Option {
	return func(t *Tracer) { t.disabled = true }
}
