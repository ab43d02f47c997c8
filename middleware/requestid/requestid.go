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

package requestid

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
)

// Key is the registry key the middleware is usually registered under.
const Key = "request_id"

// DefaultHeader carries the request id.
const DefaultHeader = "X-Request-ID"

type contextKey struct{}

// Option defines functional options for requestid middleware configuration.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    DefaultHeader,
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// WithHeader sets the header the id is read from and written to.
func WithHeader(name string) Option {
	return func(c *config) { c.headerName = name }
}

// WithGenerator sets the function generating new ids.
func WithGenerator(fn func() string) Option {
	return func(c *config) { c.generator = fn }
}

// WithULID generates ULIDs instead of UUID v7.
func WithULID() Option {
	return WithGenerator(generateULID)
}

// WithAllowClientID controls whether an id sent by the client is reused.
func WithAllowClientID(allow bool) Option {
	return func(c *config) { c.allowClientID = allow }
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy provides monotonic ordering within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns the request id middleware.
func New(opts ...Option) middleware.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return handler(cfg)
}

// Factory returns a registry factory. A single identifier argument overrides
// the header name.
func Factory(opts ...Option) middleware.Factory {
	return func(args ...string) (middleware.Handler, error) {
		cfg := defaultConfig()
		for _, opt := range opts {
			opt(cfg)
		}
		if len(args) > 0 && args[0] != "" {
			cfg.headerName = args[0]
		}
		return handler(cfg), nil
	}
}

func handler(cfg *config) middleware.HandlerFunc {
	return func(req *message.Request, next middleware.Next) (*message.Response, error) {
		var id string
		if cfg.allowClientID {
			id = req.Header(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		req = req.
			WithAttribute(contextKey{}, id).
			WithContext(context.WithValue(req.Context(), contextKey{}, id))

		res, err := next(req)
		if res != nil {
			res.Header().Set(cfg.headerName, id)
		}
		return res, err
	}
}

// Get returns the request id stored on req, or "".
func Get(req *message.Request) string {
	id, _ := req.Attribute(contextKey{}).(string)
	return id
}

// FromContext returns the request id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
