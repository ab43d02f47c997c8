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

// Package requestid provides middleware that assigns a unique id to every
// request for log correlation.
//
// # Basic Usage
//
//	reg.Register(requestid.Key, requestid.Factory())
//	reg.SetGroups(map[string][]string{"global": {requestid.Key}})
//
// # Request ID Generation
//
// By default, UUID v7 is used. UUID v7 is time-ordered and lexicographically
// sortable (RFC 9562). [WithULID] switches to the shorter 26-character ULID
// format.
//
//   - UUID v7 (default): 018f3e9a-1b2c-7def-8000-abcdef123456 (36 chars)
//   - ULID: 01ARZ3NDEKTSV4RRFFQ69G5FAV (26 chars)
//
// An id sent by the client in the configured header is reused unless
// [WithAllowClientID] disables it.
//
// # Accessing the Request ID
//
// The id is stored as a request attribute and in the request context, and is
// set on the response header:
//
//	id := requestid.Get(req)
//	id = requestid.FromContext(req.Context())
//
// The identifier may override the header name: "request_id:X-Correlation-ID".
package requestid
