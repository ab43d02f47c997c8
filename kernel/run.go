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
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/event"
	"github.com/szepeviktor/snicco/logging"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
	"github.com/szepeviktor/snicco/router/route"
	"github.com/szepeviktor/snicco/tracing"
)

// Outcome is how a run ended.
type Outcome uint8

const (
	// OutcomePassthrough means no route matched and nothing was produced.
	OutcomePassthrough Outcome = iota
	// OutcomeSent means the response was emitted.
	OutcomeSent
	// OutcomeDeferred means an admin response waits for SendDeferredResponse.
	OutcomeDeferred
	// OutcomeDelegated means a delegate route matched and nothing was produced.
	OutcomeDelegated
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePassthrough:
		return "passthrough"
	case OutcomeSent:
		return "sent"
	case OutcomeDeferred:
		return "deferred"
	case OutcomeDelegated:
		return "delegated"
	default:
		return "unknown"
	}
}

// Result describes a finished run.
type Result struct {
	Outcome Outcome
	// Route is the matched route, nil for passthrough.
	Route *route.Route
	// Response is the produced response, nil for passthrough.
	Response *message.Response
}

// IncomingRequest carries the state of one request through the kernel.
// Run it once; later runs return the first result.
type IncomingRequest struct {
	req     *message.Request
	emitter Emitter

	once   sync.Once
	result *Result
	err    error

	mu      sync.Mutex
	pending *message.Response
	sent    bool

	// ran holds the keys of middleware already run for this request.
	ran map[string]bool
}

// NewIncomingRequest wraps req. A nil emitter falls back to the kernel's.
func NewIncomingRequest(req *message.Request, emitter Emitter) *IncomingRequest {
	return &IncomingRequest{req: req, emitter: emitter, ran: make(map[string]bool)}
}

// Request returns the wrapped request.
func (in *IncomingRequest) Request() *message.Request { return in.req }

// HasPendingResponse reports whether a deferred response waits to be sent.
func (in *IncomingRequest) HasPendingResponse() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pending != nil
}

// Sent reports whether a response was emitted.
func (in *IncomingRequest) Sent() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.sent
}

// Run dispatches in. Running the same request again returns the first
// result without dispatching again.
func (k *Kernel) Run(ctx context.Context, in *IncomingRequest) (*Result, error) {
	in.once.Do(func() {
		in.result, in.err = k.observe(ctx, in)
	})
	return in.result, in.err
}

func (k *Kernel) observe(ctx context.Context, in *IncomingRequest) (*Result, error) {
	start := time.Now()
	req := in.req
	class := req.Classification()

	ctx, span := k.tracer.Start(ctx, "kernel.run", trace.WithAttributes(
		attribute.String("http.request.method", req.Method()),
		attribute.String("url.path", req.Path()),
		attribute.String("snicco.classification", class.String()),
	))

	res, err := k.run(ctx, in.withContext(ctx))

	logger := logging.WithTrace(ctx, k.logger)
	if err != nil {
		kind := serrors.KindOf(err)
		logger.ErrorContext(ctx, "kernel run failed",
			"method", req.Method(),
			"path", req.Path(),
			"kind", kind.String(),
			"error", err,
		)
		if k.metrics != nil {
			k.metrics.RecordError(ctx, kind.String())
		}
		tracing.FinishSpan(span, err)
		return nil, err
	}

	attrs := []attribute.KeyValue{attribute.String("snicco.outcome", res.Outcome.String())}
	if res.Route != nil {
		attrs = append(attrs, attribute.String("http.route", res.Route.Pattern()), attribute.String("snicco.route", res.Route.Name()))
	}
	span.SetAttributes(attrs...)
	tracing.FinishSpan(span, nil)

	logger.DebugContext(ctx, "kernel run finished",
		"method", req.Method(),
		"path", req.Path(),
		"classification", class.String(),
		"outcome", res.Outcome.String(),
	)
	if k.metrics != nil {
		k.metrics.RecordRun(ctx, class.String(), res.Outcome.String(), time.Since(start))
	}
	return res, nil
}

// withContext binds the traced context to the request the pipeline sees.
func (in *IncomingRequest) withContext(ctx context.Context) *IncomingRequest {
	in.req = in.req.WithContext(ctx)
	return in
}

func (k *Kernel) run(ctx context.Context, in *IncomingRequest) (*Result, error) {
	req := in.req
	p := k.policy(req.Classification())

	m, err := k.routes.Match(req)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return k.unmatched(ctx, in, p)
	}

	ids := m.Route.Middleware()
	if !p.testMode && len(k.registry.Group(GlobalGroup)) > 0 {
		ids = append([]string{GlobalGroup}, ids...)
	}
	entries, err := k.registry.Resolve(ids)
	if err != nil {
		return nil, err
	}
	entries = middleware.Dedupe(entries, in.ran)

	res, err := k.registry.Pipeline(entries).Then(req, terminal(m))
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, serrors.InvalidResponse(m.Route.Name(), "nil")
	}

	return k.deliver(ctx, in, m.Route, res)
}

// unmatched runs the global group around a passthrough terminal when
// always-run is on. A middleware that answers itself turns the passthrough
// into a normal delivery.
func (k *Kernel) unmatched(ctx context.Context, in *IncomingRequest, p policy) (*Result, error) {
	if p.alwaysRunGlobal && !p.testMode && len(k.registry.Group(GlobalGroup)) > 0 {
		entries, err := k.registry.Resolve([]string{GlobalGroup})
		if err != nil {
			return nil, err
		}
		entries = middleware.Dedupe(entries, in.ran)

		res, err := k.registry.Pipeline(entries).Then(in.req, passthrough)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, &serrors.Error{
				Kind:    serrors.KindInvalidResponse,
				Message: fmt.Sprintf("The global middleware returned no response for the unmatched path [%s].", in.req.Path()),
			}
		}
		if !res.IsDelegated() {
			return k.deliver(ctx, in, nil, res)
		}
	}

	if p.requireMatch {
		return nil, serrors.NotFound(in.req.Path())
	}
	return &Result{Outcome: OutcomePassthrough}, nil
}

func passthrough(*message.Request) (*message.Response, error) {
	return message.Delegate(), nil
}

// terminal invokes the matched controller and validates its return value.
func terminal(m *route.Match) middleware.Next {
	return func(req *message.Request) (*message.Response, error) {
		if m.Route.Kind() == route.KindDelegate {
			return message.Delegate(), nil
		}

		v, err := m.Route.Action()(req, m.Arguments)
		if err != nil {
			return nil, err
		}
		res, err := message.FromResult(v)
		if err != nil {
			var unsupported *message.ErrUnsupportedResult
			if errors.As(err, &unsupported) {
				return nil, serrors.InvalidResponse(m.Route.Name(), unsupported.Type)
			}
			return nil, err
		}
		return res, nil
	}
}

func (k *Kernel) deliver(ctx context.Context, in *IncomingRequest, r *route.Route, res *message.Response) (*Result, error) {
	result := &Result{Route: r, Response: res}

	switch {
	case res.IsDelegated():
		result.Outcome = OutcomeDelegated
	case in.req.Classification() == message.ClassAdmin:
		in.mu.Lock()
		in.pending = res
		in.mu.Unlock()
		result.Outcome = OutcomeDeferred
	default:
		if err := k.send(ctx, in, res); err != nil {
			return nil, err
		}
		result.Outcome = OutcomeSent
	}
	return result, nil
}

// SendDeferredResponse emits the response an admin request left pending.
// Without a pending response it does nothing, so a second call is a no-op.
func (k *Kernel) SendDeferredResponse(ctx context.Context, in *IncomingRequest) error {
	in.mu.Lock()
	res := in.pending
	in.pending = nil
	in.mu.Unlock()

	if res == nil {
		return nil
	}

	ctx, span := k.tracer.Start(ctx, "kernel.send_deferred")
	err := k.send(ctx, in, res)
	tracing.FinishSpan(span, err)
	return err
}

// send emits headers then body, with an event after each and a final
// ResponseSent.
func (k *Kernel) send(ctx context.Context, in *IncomingRequest, res *message.Response) error {
	emitter := in.emitter
	if emitter == nil {
		emitter = k.emitter
	}
	req := in.req

	if err := emitter.EmitHeaders(ctx, res); err != nil {
		return err
	}
	k.events.Dispatch(ctx, event.HeadersSent{Request: req, Response: res})

	if err := emitter.EmitBody(ctx, res); err != nil {
		return err
	}
	k.events.Dispatch(ctx, event.BodySent{Request: req, Response: res})

	in.mu.Lock()
	in.sent = true
	in.mu.Unlock()

	k.events.Dispatch(ctx, event.ResponseSent{Request: req, Response: res})
	return nil
}

// FilterQueryVars lets the route matching req rewrite the host's query
// variables. Only GET and HEAD requests are considered and the controller
// is not called. The bool reports whether a filter ran.
func (k *Kernel) FilterQueryVars(_ context.Context, req *message.Request, vars url.Values) (url.Values, bool, error) {
	if req.Method() != http.MethodGet && req.Method() != http.MethodHead {
		return vars, false, nil
	}

	m, err := k.routes.Match(req)
	if err != nil {
		return vars, false, err
	}
	if m == nil || m.Route.QueryFilter() == nil {
		return vars, false, nil
	}

	filtered := m.Route.QueryFilter()(cloneValues(vars), m.Arguments)
	if filtered == nil {
		filtered = url.Values{}
	}
	return filtered, true, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for key, vals := range v {
		out[key] = append([]string(nil), vals...)
	}
	return out
}
