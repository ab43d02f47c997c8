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

// Package security provides middleware that adds security headers to the
// responses of matched routes.
//
// # Basic Usage
//
//	reg.Register(security.Key, middleware.Static(security.New()))
//
// # Security Headers
//
// With the defaults the middleware sets:
//
//   - X-Frame-Options: DENY
//   - X-Content-Type-Options: nosniff
//   - Content-Security-Policy: default-src 'self'
//   - Referrer-Policy: strict-origin-when-cross-origin
//   - Strict-Transport-Security: max-age=31536000; includeSubDomains (HTTPS only)
//
// A header the route already set is left untouched, so a controller can
// relax a policy for its own response. Delegated responses carry no content
// and are passed through unchanged.
//
// [DevelopmentPreset] relaxes the policy and drops HSTS.
package security
