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

// Package errors defines the error taxonomy of the routing core and the
// formatters that turn those errors into HTTP responses.
//
// Every error raised by the core is an [*Error] tagged with a [Kind]. The kind
// decides the HTTP status and whether the message may be shown to the client:
//
//   - KindConfiguration: route or middleware misconfiguration (500, private)
//   - KindInvalidResponse: a controller returned an unsupported value (500, private)
//   - KindNotFound: a match was required but none was found (404, public)
//   - KindAuthorization: a capability check failed (403, public)
//   - KindInvalidSignature: a signed URL was tampered with or expired (403, public)
//
// The pipeline never translates errors. They travel unchanged to the host's
// error boundary, which can render them with a [Formatter]:
//
//	formatter := errors.NewHTML()
//	response := formatter.Format(r, err)
//	w.Header().Set("Content-Type", response.ContentType)
//	w.WriteHeader(response.Status)
//	fmt.Fprint(w, response.Body)
//
// Requests that expect JSON are better served by [RFC9457].
package errors
