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

package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// RFC9457 renders errors as problem details ("application/problem+json").
// It is used for ajax and frontend API requests.
type RFC9457 struct {
	// BaseURL prefixes the problem type.
	BaseURL string

	// TypeResolver overrides the problem type.
	TypeResolver func(err error) string

	// StatusResolver overrides [StatusOf].
	StatusResolver func(err error) int

	// ErrorIDGenerator returns the error_id extension. The default is a
	// UUIDv7 with an "err-" prefix.
	ErrorIDGenerator func() string

	// DisableErrorID omits the error_id extension.
	DisableErrorID bool
}

// ProblemDetail is an RFC 9457 problem. Extensions are encoded as top level
// members and can not shadow the standard ones.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

var reservedMembers = map[string]bool{
	"type": true, "title": true, "status": true, "detail": true, "instance": true,
}

// MarshalJSON implements [json.Marshaler].
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		if !reservedMembers[k] {
			m[k] = v
		}
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	return json.Marshal(m)
}

// Format implements [Formatter]. The instance is the request path. A route
// name is exposed only for publicly rendered kinds.
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := StatusOf(err)
	if f.StatusResolver != nil {
		status = f.StatusResolver(err)
	}
	detail := publicMessage(err, status)

	ext := make(map[string]any)
	if !f.DisableErrorID {
		gen := f.ErrorIDGenerator
		if gen == nil {
			gen = generateErrorID
		}
		ext["error_id"] = gen()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		ext["code"] = coded.Code()
	}

	var e *Error
	isError := errors.As(err, &e)
	public := isError && e.Kind.Render() == RenderPublic
	if public && e.Route != "" {
		ext["route"] = e.Route
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) && (public || !isError) && detail != http.StatusText(status) {
		ext["errors"] = detailed.Details()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body: ProblemDetail{
			Type:       f.problemType(err, coded),
			Title:      http.StatusText(status),
			Status:     status,
			Detail:     detail,
			Instance:   req.URL.Path,
			Extensions: ext,
		},
	}
}

func (f *RFC9457) problemType(err error, coded ErrorCode) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}
	if coded == nil {
		return "about:blank"
	}
	if f.BaseURL != "" {
		return f.BaseURL + "/" + coded.Code()
	}
	return coded.Code()
}

// generateErrorID returns a time ordered id that correlates a response with
// the logs.
func generateErrorID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "err-" + uuid.NewString()
	}
	return "err-" + id.String()
}
