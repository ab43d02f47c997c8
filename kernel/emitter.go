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
	"net/http"

	"github.com/szepeviktor/snicco/message"
)

// Emitter writes a response to the host transport. Headers are always
// emitted before the body.
type Emitter interface {
	EmitHeaders(ctx context.Context, res *message.Response) error
	EmitBody(ctx context.Context, res *message.Response) error
}

// DiscardEmitter drops every response.
type DiscardEmitter struct{}

// EmitHeaders does nothing.
func (DiscardEmitter) EmitHeaders(context.Context, *message.Response) error { return nil }

// EmitBody does nothing.
func (DiscardEmitter) EmitBody(context.Context, *message.Response) error { return nil }

// HTTPEmitter writes responses to an [http.ResponseWriter].
type HTTPEmitter struct {
	w           http.ResponseWriter
	wroteHeader bool
}

// NewHTTPEmitter returns an emitter writing to w.
func NewHTTPEmitter(w http.ResponseWriter) *HTTPEmitter {
	return &HTTPEmitter{w: w}
}

// EmitHeaders copies the response headers and writes the status line.
func (e *HTTPEmitter) EmitHeaders(_ context.Context, res *message.Response) error {
	if e.wroteHeader {
		return nil
	}
	h := e.w.Header()
	for name, values := range res.Header() {
		h[name] = append([]string(nil), values...)
	}
	e.w.WriteHeader(res.Status())
	e.wroteHeader = true
	return nil
}

// EmitBody writes the response body.
func (e *HTTPEmitter) EmitBody(_ context.Context, res *message.Response) error {
	if len(res.Body()) == 0 {
		return nil
	}
	if _, err := e.w.Write(res.Body()); err != nil {
		return fmt.Errorf("write response body: %w", err)
	}
	return nil
}

// HeadersWritten reports whether the status line went out.
func (e *HTTPEmitter) HeadersWritten() bool { return e.wroteHeader }
