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

package security

// WithFrameOptions sets the X-Frame-Options header.
// Default: "DENY"
func WithFrameOptions(value string) Option {
	return func(cfg *config) {
		cfg.headers["X-Frame-Options"] = value
	}
}

// WithContentTypeNosniff enables or disables X-Content-Type-Options: nosniff.
// Default: true
func WithContentTypeNosniff(enabled bool) Option {
	return func(cfg *config) {
		cfg.headers["X-Content-Type-Options"] = ""
		if enabled {
			cfg.headers["X-Content-Type-Options"] = "nosniff"
		}
	}
}

// WithHSTS configures HTTP Strict Transport Security. A zero maxAge disables
// the header. It is only sent on secure requests.
//
// Example:
//
//	security.New(security.WithHSTS(63072000, true, true)) // 2 years, includeSubdomains, preload
func WithHSTS(maxAge int, includeSubdomains, preload bool) Option {
	return func(cfg *config) {
		cfg.hstsMaxAge = maxAge
		cfg.hstsIncludeSubdomains = includeSubdomains
		cfg.hstsPreload = preload
	}
}

// WithContentSecurityPolicy sets the Content-Security-Policy header.
// Default: "default-src 'self'"
func WithContentSecurityPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.headers["Content-Security-Policy"] = policy
	}
}

// WithReferrerPolicy sets the Referrer-Policy header.
// Default: "strict-origin-when-cross-origin"
func WithReferrerPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.headers["Referrer-Policy"] = policy
	}
}

// WithPermissionsPolicy sets the Permissions-Policy header.
//
// Example:
//
//	security.New(security.WithPermissionsPolicy("geolocation=(), microphone=(), camera=()"))
func WithPermissionsPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.headers["Permissions-Policy"] = policy
	}
}

// WithCustomHeader adds a header. An empty value removes a default header.
func WithCustomHeader(name, value string) Option {
	return func(cfg *config) {
		cfg.headers[name] = value
	}
}

// NoSecurityHeaders disables all headers. Options applied after it may add
// some back.
func NoSecurityHeaders() Option {
	return func(cfg *config) {
		cfg.headers = make(map[string]string)
		cfg.hstsMaxAge = 0
	}
}

// DevelopmentPreset allows inline scripts and styles, same-origin framing and
// plain HTTP.
func DevelopmentPreset() Option {
	return func(cfg *config) {
		cfg.headers["X-Frame-Options"] = "SAMEORIGIN"
		cfg.headers["Content-Security-Policy"] = "default-src 'self' 'unsafe-inline' 'unsafe-eval'; img-src 'self' data:;"
		cfg.headers["Referrer-Policy"] = "no-referrer-when-downgrade"
		cfg.hstsMaxAge = 0
	}
}
