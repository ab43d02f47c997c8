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

// Package logging builds the [slog.Logger] used by the kernel and its
// middleware.
//
// # Handlers
//
// Three handler types are available:
//
//   - [JSONHandler]: one JSON object per line (default)
//   - [TextHandler]: key=value pairs
//   - [ConsoleHandler]: colored, human readable lines for development
//
// # Usage
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithDebugLevel(),
//	    logging.WithServiceName("shop"),
//	)
//	k, err := kernel.New(routes, registry, kernel.WithLogger(logger.Logger()))
//
// Attributes named like credentials (secret, signature, token, password,
// authorization) are redacted by every handler.
//
// # Trace correlation
//
// [WithTrace] adds trace_id and span_id of the active OpenTelemetry span:
//
//	logging.WithTrace(ctx, logger).InfoContext(ctx, "route matched")
//
// # Testing
//
// [NewTestLogger] writes JSON into a buffer that [ParseJSONLogEntries] reads
// back.
package logging
