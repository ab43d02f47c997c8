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
	"fmt"
	"log/slog"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
)

// Key is the registry key the middleware is usually registered under.
const Key = "recovery"

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	handler    func(req *message.Request, recovered any) (*message.Response, error)
	stackTrace bool
	stackSize  int
}

func defaultConfig() *config {
	return &config{
		logger:     slog.Default(),
		handler:    defaultHandler,
		stackTrace: true,
		stackSize:  4 << 10,
	}
}

func defaultHandler(_ *message.Request, recovered any) (*message.Response, error) {
	if err, ok := recovered.(error); ok {
		return nil, &serrors.Error{Kind: serrors.KindInternal, Message: "panic", Err: err}
	}
	return nil, &serrors.Error{Kind: serrors.KindInternal, Message: fmt.Sprintf("panic: %v", recovered)}
}

// New returns the recovery middleware.
func New(opts ...Option) middleware.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return middleware.HandlerFunc(func(req *message.Request, next middleware.Next) (res *message.Response, err error) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			span := trace.SpanFromContext(req.Context())
			span.SetAttributes(
				attribute.Bool("exception.escaped", true),
				attribute.String("exception.type", fmt.Sprintf("%T", rec)),
				attribute.String("exception.message", fmt.Sprint(rec)),
			)
			span.SetStatus(codes.Error, "panic recovered")

			if cfg.logger != nil {
				attrs := []any{
					"panic", fmt.Sprint(rec),
					"method", req.Method(),
					"path", req.Path(),
				}
				if cfg.stackTrace {
					stack := make([]byte, cfg.stackSize)
					stack = stack[:runtime.Stack(stack, false)]
					attrs = append(attrs, "stack", string(stack))
				}
				cfg.logger.ErrorContext(req.Context(), "panic recovered", attrs...)
			}

			res, err = cfg.handler(req, rec)
		}()

		return next(req)
	})
}
