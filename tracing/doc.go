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

// Package tracing wires OpenTelemetry into the kernel.
//
// A [Tracer] owns a tracer provider and hands it to the kernel:
//
//	tracer, err := tracing.New(
//	    tracing.WithServiceName("shop"),
//	    tracing.WithStdout(os.Stderr),
//	)
//	defer tracer.Shutdown(ctx)
//	k, err := kernel.New(routes, registry, kernel.WithTracerProvider(tracer.Provider()))
//
// The kernel starts one span per request ("kernel.run") with the matched
// route, the classification and the outcome as attributes. Deferred admin
// responses get a second span when they are sent.
//
// # Testing
//
// [TestingTracer] records finished spans in memory:
//
//	tracer, spans := tracing.TestingTracer(t)
//	// run the kernel with tracer.Provider()
//	require.Len(t, spans.Ended(), 1)
package tracing
