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

package recovery

import (
	"log/slog"

	"github.com/szepeviktor/snicco/message"
)

// WithoutLogging disables panic logging.
// Useful for tests to avoid noisy output.
//
// Example:
//
//	recovery.New(recovery.WithoutLogging())
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithLogger sets a custom slog.Logger for panic logging.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	recovery.New(recovery.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithHandler sets a custom conversion of the recovered value. It may return
// a response instead of an error.
//
// Example:
//
//	recovery.New(recovery.WithHandler(func(req *message.Request, rec any) (*message.Response, error) {
//	    res, err := message.JSON(map[string]any{"error": "Something went wrong"})
//	    if err == nil {
//	        res.SetStatus(http.StatusInternalServerError)
//	    }
//	    return res, err
//	}))
func WithHandler(handler func(req *message.Request, recovered any) (*message.Response, error)) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// WithStackTrace enables or disables stack trace capture.
// Default: true
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize sets the maximum size of the stack trace in bytes.
// Default: 4KB
//
// Example:
//
//	recovery.New(recovery.WithStackSize(8 << 10)) // 8KB
func WithStackSize(size int) Option {
	return func(cfg *config) {
		cfg.stackSize = size
	}
}
