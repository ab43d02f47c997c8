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

package accesslog

import (
	"log/slog"
	"time"

	"github.com/szepeviktor/snicco/logging"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
	"github.com/szepeviktor/snicco/middleware/requestid"
)

// Key is the registry key of the middleware.
const Key = "access_log"

// Option configures the middleware.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	excludePaths  map[string]bool
	slowThreshold time.Duration
	now           func() time.Time
}

func defaultConfig() *config {
	return &config{
		logger:       logging.Discard(),
		excludePaths: make(map[string]bool),
		now:          time.Now,
	}
}

// WithLogger sets the logger records are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithExcludePaths skips logging for exact paths.
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithSlowThreshold logs requests taking longer than d at warn level.
// Zero disables it.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) { c.slowThreshold = d }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New returns the access log middleware.
func New(opts ...Option) middleware.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return handler(cfg)
}

// Factory returns a registry factory. Identifier arguments are ignored.
func Factory(opts ...Option) middleware.Factory {
	return middleware.Static(New(opts...))
}

func handler(cfg *config) middleware.HandlerFunc {
	return func(req *message.Request, next middleware.Next) (*message.Response, error) {
		if cfg.excludePaths[req.Path()] {
			return next(req)
		}

		start := cfg.now()
		res, err := next(req)
		elapsed := cfg.now().Sub(start)

		ctx := req.Context()
		attrs := []any{
			"method", req.Method(),
			"path", req.Path(),
			"classification", req.Classification().String(),
			"duration_ms", elapsed.Milliseconds(),
		}
		if id := requestid.Get(req); id != "" {
			attrs = append(attrs, "request_id", id)
		}
		logger := logging.WithTrace(ctx, cfg.logger)

		switch {
		case err != nil:
			logger.ErrorContext(ctx, "request failed", append(attrs, "error", err)...)
		case res == nil:
			logger.InfoContext(ctx, "request", attrs...)
		case res.IsDelegated():
			logger.DebugContext(ctx, "request delegated", attrs...)
		default:
			attrs = append(attrs, "status", res.Status())
			if cfg.slowThreshold > 0 && elapsed > cfg.slowThreshold {
				logger.WarnContext(ctx, "slow request", append(attrs, "slow", true)...)
				return res, err
			}
			logger.InfoContext(ctx, "request", attrs...)
		}
		return res, err
	}
}
