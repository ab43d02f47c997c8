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

package message

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

// Response is the response produced for a single request.
type Response struct {
	status int
	header http.Header
	body   []byte

	// away marks an intentional external redirect.
	away bool
	// delegated marks the absence of content: the host keeps control.
	delegated bool
}

// NewResponse returns a response with status and body.
func NewResponse(status int, body []byte) *Response {
	return &Response{status: status, header: make(http.Header), body: body}
}

// HTML returns a 200 text/html response.
func HTML(body string) *Response {
	r := NewResponse(http.StatusOK, []byte(body))
	r.header.Set("Content-Type", "text/html; charset=UTF-8")
	return r
}

// JSON returns a 200 application/json response encoding v.
func JSON(v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	r := NewResponse(http.StatusOK, b)
	r.header.Set("Content-Type", "application/json")
	return r, nil
}

// Redirect returns a redirect to location. A relative location without a
// leading slash is made root relative. status defaults to 302 when zero.
func Redirect(location string, status int) *Response {
	if status == 0 {
		status = http.StatusFound
	}
	if location == "" {
		location = "/"
	} else if !strings.Contains(location, "://") && location[0] != '/' {
		location = "/" + location
	}
	r := NewResponse(status, nil)
	r.header.Set("Location", location)
	return r
}

// Away returns a 302 redirect to an external location that bypasses redirect
// protection. Use it only for targets the application chose deliberately.
func Away(location string) *Response {
	r := NewResponse(http.StatusFound, nil)
	r.header.Set("Location", location)
	r.away = true
	return r
}

// Delegate returns the "no content" marker. The kernel sends nothing for it
// and the host continues with its own handling.
func Delegate() *Response {
	return &Response{status: http.StatusOK, header: make(http.Header), delegated: true}
}

// Status returns the status code.
func (r *Response) Status() int { return r.status }

// SetStatus sets the status code.
func (r *Response) SetStatus(status int) { r.status = status }

// Header returns the header map. Keys are canonicalized, so lookups are case
// insensitive, and a key may carry several values.
func (r *Response) Header() http.Header { return r.header }

// Body returns the body.
func (r *Response) Body() []byte { return r.body }

// SetBody replaces the body.
func (r *Response) SetBody(b []byte) { r.body = b }

// IsRedirect reports whether r is a 3xx response with a Location header.
func (r *Response) IsRedirect() bool {
	return r.status >= 300 && r.status < 400 && r.header.Get("Location") != ""
}

// IsAway reports whether r was built by [Away].
func (r *Response) IsAway() bool { return r.away }

// IsDelegated reports whether r is the "no content" marker.
func (r *Response) IsDelegated() bool { return r.delegated }

// ErrUnsupportedResult is returned by [FromResult] for values that are not a
// recognized response kind.
type ErrUnsupportedResult struct {
	Type string
}

func (e *ErrUnsupportedResult) Error() string {
	return "unsupported controller result of type " + e.Type
}

// FromResult converts a controller return value into a response.
//
// Recognized kinds are a string (HTML), a *Response, and a value of map, slice
// or array kind (JSON). Anything else, including nil, returns
// *ErrUnsupportedResult.
func FromResult(v any) (*Response, error) {
	switch t := v.(type) {
	case *Response:
		if t == nil {
			return nil, &ErrUnsupportedResult{Type: "nil *message.Response"}
		}
		return t, nil
	case string:
		return HTML(t), nil
	case nil:
		return nil, &ErrUnsupportedResult{Type: "nil"}
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return JSON(v)
	default:
		return nil, &ErrUnsupportedResult{Type: fmt.Sprintf("%T", v)}
	}
}
