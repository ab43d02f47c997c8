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

package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/szepeviktor/snicco/message"
)

// Event is a lifecycle notification.
type Event interface {
	EventName() string
}

// Names of the kernel events.
const (
	NameHeadersSent  = "response.headers_sent"
	NameBodySent     = "response.body_sent"
	NameResponseSent = "response.sent"
)

// HeadersSent is emitted after the status line and headers were written.
type HeadersSent struct {
	Request  *message.Request
	Response *message.Response
}

// EventName implements [Event].
func (HeadersSent) EventName() string { return NameHeadersSent }

// BodySent is emitted after the body was written.
type BodySent struct {
	Request  *message.Request
	Response *message.Response
}

// EventName implements [Event].
func (BodySent) EventName() string { return NameBodySent }

// ResponseSent is emitted last, once the response is complete.
type ResponseSent struct {
	Request  *message.Request
	Response *message.Response
}

// EventName implements [Event].
func (ResponseSent) EventName() string { return NameResponseSent }

// Dispatcher delivers events to observers.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Event)
}

// Bus is a synchronous [Dispatcher]. Listeners run in registration order on
// the dispatching goroutine. A panicking listener is logged and does not stop
// the others.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]func(context.Context, Event)
	logger    *slog.Logger
}

// BusOption configures a [Bus].
type BusOption func(*Bus)

// WithLogger sets the logger for listener panics.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) { b.logger = logger }
}

// NewBus returns an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		listeners: make(map[string][]func(context.Context, Event)),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Listen registers fn for events of type E.
func Listen[E Event](b *Bus, fn func(ctx context.Context, e E)) {
	var zero E
	b.Subscribe(zero.EventName(), func(ctx context.Context, e Event) {
		if typed, ok := e.(E); ok {
			fn(ctx, typed)
		}
	})
}

// Subscribe registers fn for events named name.
func (b *Bus) Subscribe(name string, fn func(context.Context, Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], fn)
}

// Dispatch implements [Dispatcher].
func (b *Bus) Dispatch(ctx context.Context, e Event) {
	b.mu.RLock()
	listeners := make([]func(context.Context, Event), len(b.listeners[e.EventName()]))
	copy(listeners, b.listeners[e.EventName()])
	b.mu.RUnlock()

	for _, fn := range listeners {
		b.call(ctx, e, fn)
	}
}

func (b *Bus) call(ctx context.Context, e Event, fn func(context.Context, Event)) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event listener panicked",
				"event", e.EventName(),
				"panic", fmt.Sprint(r),
			)
		}
	}()
	fn(ctx, e)
}

// Discard is a [Dispatcher] that drops every event.
var Discard Dispatcher = discard{}

type discard struct{}

func (discard) Dispatch(context.Context, Event) {}
