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

// Package recovery provides middleware that turns panics raised further down
// the chain into internal errors.
//
// The panic is logged with a stack trace and recorded on the active
// OpenTelemetry span. The resulting error has [errors.KindInternal], so its
// message is never rendered to clients.
//
// # Basic Usage
//
//	reg.Register(recovery.Key, middleware.Static(recovery.New(recovery.WithLogger(logger))))
//
// Register it first in the global group so it wraps every other middleware.
//
// # Configuration Options
//
//   - WithStackTrace: Enable/disable stack trace logging (default: true)
//   - WithStackSize: Maximum stack trace size in bytes (default: 4KB)
//   - WithLogger: Custom logger for panic messages
//   - WithHandler: Custom conversion of the recovered value
//
// # OpenTelemetry Integration
//
// The middleware marks the span with exception information:
//
//   - exception.escaped: Set to true for panics
//   - exception.type: Type of the panic value
//   - exception.message: String representation of the panic value
package recovery
