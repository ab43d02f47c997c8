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

import (
	"fmt"
	"maps"
	"slices"

	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
)

// Key is the registry key the middleware is usually registered under.
const Key = "security_headers"

// Option defines functional options for security middleware configuration.
type Option func(*config)

type config struct {
	headers               map[string]string
	hstsMaxAge            int
	hstsIncludeSubdomains bool
	hstsPreload           bool
}

func defaultConfig() *config {
	return &config{
		headers: map[string]string{
			"X-Frame-Options":         "DENY",
			"X-Content-Type-Options":  "nosniff",
			"Content-Security-Policy": "default-src 'self'",
			"Referrer-Policy":         "strict-origin-when-cross-origin",
		},
		hstsMaxAge:            31536000, // 1 year
		hstsIncludeSubdomains: true,
	}
}

type header struct{ name, value string }

// New returns the security headers middleware.
func New(opts ...Option) middleware.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var headers []header
	for _, name := range slices.Sorted(maps.Keys(cfg.headers)) {
		if v := cfg.headers[name]; v != "" {
			headers = append(headers, header{name, v})
		}
	}

	var hsts string
	if cfg.hstsMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d", cfg.hstsMaxAge)
		if cfg.hstsIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.hstsPreload {
			hsts += "; preload"
		}
	}

	return middleware.HandlerFunc(func(req *message.Request, next middleware.Next) (*message.Response, error) {
		res, err := next(req)
		if err != nil || res == nil || res.IsDelegated() {
			return res, err
		}

		h := res.Header()
		for _, hd := range headers {
			if h.Get(hd.name) == "" {
				h.Set(hd.name, hd.value)
			}
		}
		if hsts != "" && req.IsSecure() && h.Get("Strict-Transport-Security") == "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		return res, nil
	})
}
