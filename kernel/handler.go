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
	"encoding/json"
	"net/http"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/logging"
	"github.com/szepeviktor/snicco/message"
)

// Classifier decides the classification of an incoming HTTP request.
type Classifier func(r *http.Request) message.Classification

// ClassifyWeb classifies every request as web.
func ClassifyWeb(*http.Request) message.Classification { return message.ClassWeb }

// HandlerOption configures [Handler].
type HandlerOption func(*handler)

// WithHTMLFormatter sets the formatter for web and admin errors.
func WithHTMLFormatter(f serrors.Formatter) HandlerOption {
	return func(h *handler) { h.html = f }
}

// WithProblemFormatter sets the formatter for ajax and frontend API errors.
func WithProblemFormatter(f serrors.Formatter) HandlerOption {
	return func(h *handler) { h.problem = f }
}

type handler struct {
	k        *Kernel
	classify Classifier
	fallback http.Handler
	html     serrors.Formatter
	problem  serrors.Formatter
}

// Handler adapts k to net/http. Passthrough and delegated requests go to
// fallback, or get a 404 when fallback is nil. Deferred admin responses are
// sent right after the run.
func Handler(k *Kernel, classify Classifier, fallback http.Handler, opts ...HandlerOption) http.Handler {
	if classify == nil {
		classify = ClassifyWeb
	}
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}
	h := &handler{
		k:        k,
		classify: classify,
		fallback: fallback,
		html:     serrors.NewHTML(),
		problem:  serrors.NewRFC9457(""),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := message.FromHTTP(r, h.classify(r))
	emitter := NewHTTPEmitter(w)
	in := NewIncomingRequest(req, emitter)

	res, err := h.k.Run(ctx, in)
	if err == nil && res.Outcome == OutcomeDeferred {
		err = h.k.SendDeferredResponse(ctx, in)
	}
	if err != nil {
		if emitter.HeadersWritten() {
			logging.WithTrace(ctx, h.k.logger).ErrorContext(ctx, "response failed after headers were sent", "error", err)
			return
		}
		h.writeError(w, r, req.Classification(), err)
		return
	}

	switch res.Outcome {
	case OutcomePassthrough, OutcomeDelegated:
		h.fallback.ServeHTTP(w, r)
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, class message.Classification, err error) {
	f := h.html
	if class == message.ClassAjax || class == message.ClassFrontendAPI {
		f = h.problem
	}
	out := f.Format(r, err)

	for name, values := range out.Headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set("Content-Type", out.ContentType)
	w.WriteHeader(out.Status)

	if body, ok := out.Body.(string); ok {
		_, _ = w.Write([]byte(body))
		return
	}
	if encErr := json.NewEncoder(w).Encode(out.Body); encErr != nil {
		logging.WithTrace(r.Context(), h.k.logger).ErrorContext(r.Context(), "encode error response", "error", encErr)
	}
}
