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

package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/szepeviktor/snicco/event"
	"github.com/szepeviktor/snicco/logging"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
	"github.com/szepeviktor/snicco/router"
	"github.com/szepeviktor/snicco/tracing"
)

// GlobalGroup is the middleware group run around every matched route.
const GlobalGroup = "global"

// Metrics receives one observation per run.
type Metrics interface {
	RecordRun(ctx context.Context, classification, outcome string, d time.Duration)
	RecordError(ctx context.Context, kind string)
}

// Kernel dispatches requests. It is safe for concurrent use; the setters
// are meant for bootstrap.
type Kernel struct {
	routes   *router.Collection
	registry *middleware.Registry

	mu              sync.RWMutex
	alwaysRunGlobal bool
	testMode        bool
	requireMatch    map[message.Classification]bool

	groups  map[string][]string
	aliases map[string]string

	events  event.Dispatcher
	emitter Emitter
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer
}

// Option configures a [Kernel].
type Option func(*Kernel)

// WithAlwaysRunGlobalMiddleware runs the global group for unmatched
// requests too.
func WithAlwaysRunGlobalMiddleware(always bool) Option {
	return func(k *Kernel) { k.alwaysRunGlobal = always }
}

// WithTestMode skips the global group.
func WithTestMode(enabled bool) Option {
	return func(k *Kernel) { k.testMode = enabled }
}

// WithRequireMatch turns unmatched requests of the given classifications
// into not found errors.
func WithRequireMatch(classes ...message.Classification) Option {
	return func(k *Kernel) {
		for _, c := range classes {
			k.requireMatch[c] = true
		}
	}
}

// WithMiddlewareGroups replaces the registry's group table.
func WithMiddlewareGroups(groups map[string][]string) Option {
	return func(k *Kernel) { k.groups = groups }
}

// WithMiddlewareAliases replaces the registry's alias table.
func WithMiddlewareAliases(aliases map[string]string) Option {
	return func(k *Kernel) { k.aliases = aliases }
}

// WithEvents sets the dispatcher for lifecycle events.
func WithEvents(d event.Dispatcher) Option {
	return func(k *Kernel) { k.events = d }
}

// WithEmitter sets the emitter used for requests that bring none.
func WithEmitter(e Emitter) Option {
	return func(k *Kernel) { k.emitter = e }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kernel) { k.logger = logger }
}

// WithMetrics records run outcomes and errors.
func WithMetrics(m Metrics) Option {
	return func(k *Kernel) { k.metrics = m }
}

// WithTracerProvider traces every run.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(k *Kernel) { k.tracer = tp.Tracer(tracing.InstrumentationName) }
}

// New creates a kernel over routes. Every route's middleware and the global
// group must resolve through registry.
func New(routes *router.Collection, registry *middleware.Registry, opts ...Option) (*Kernel, error) {
	if routes == nil {
		routes = router.NewCollection()
	}
	if registry == nil {
		registry = middleware.NewRegistry()
	}

	k := &Kernel{
		routes:       routes,
		registry:     registry,
		requireMatch: make(map[message.Classification]bool),
		events:       event.Discard,
		emitter:      DiscardEmitter{},
		logger:       logging.Discard(),
		tracer:       noop.NewTracerProvider().Tracer(tracing.InstrumentationName),
	}
	for _, opt := range opts {
		opt(k)
	}

	if k.groups != nil {
		registry.SetGroups(k.groups)
	}
	if k.aliases != nil {
		registry.SetAliases(k.aliases)
	}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// validate resolves the global group and the middleware of every route.
func (k *Kernel) validate() error {
	if len(k.registry.Group(GlobalGroup)) > 0 {
		if err := k.registry.Validate([]string{GlobalGroup}); err != nil {
			return fmt.Errorf("middleware group [%s]: %w", GlobalGroup, err)
		}
	}
	for _, r := range k.routes.Routes() {
		if err := k.registry.Validate(r.Middleware()); err != nil {
			return fmt.Errorf("route [%s]: %w", r.Name(), err)
		}
	}
	return nil
}

// Routes returns the route collection.
func (k *Kernel) Routes() *router.Collection { return k.routes }

// SetMiddlewareGroups replaces the group table and validates the routes
// against it.
func (k *Kernel) SetMiddlewareGroups(groups map[string][]string) error {
	k.registry.SetGroups(groups)
	return k.validate()
}

// SetRouteMiddlewareAliases replaces the alias table and validates the
// routes against it.
func (k *Kernel) SetRouteMiddlewareAliases(aliases map[string]string) error {
	k.registry.SetAliases(maps.Clone(aliases))
	return k.validate()
}

// AlwaysRunGlobalMiddleware toggles running the global group for unmatched
// requests.
func (k *Kernel) AlwaysRunGlobalMiddleware(always bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.alwaysRunGlobal = always
}

// RunInTestMode toggles test mode.
func (k *Kernel) RunInTestMode(enabled bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.testMode = enabled
}

type policy struct {
	alwaysRunGlobal bool
	testMode        bool
	requireMatch    bool
}

func (k *Kernel) policy(class message.Classification) policy {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return policy{
		alwaysRunGlobal: k.alwaysRunGlobal,
		testMode:        k.testMode,
		requireMatch:    k.requireMatch[class],
	}
}
