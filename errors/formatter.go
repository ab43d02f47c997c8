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
	"errors"
	"net/http"
)

// Formatter renders an error returned by the kernel into an HTTP response.
// Formatters never reveal the message of an error whose [Kind] renders
// privately.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// Response is a rendered error.
type Response struct {
	Status      int
	ContentType string
	// Body is a string for [HTML] and a [ProblemDetail] for [RFC9457].
	Body any
	// Headers are added to the response, if any.
	Headers http.Header
}

// ErrorType is implemented by errors that carry their HTTP status.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails is implemented by errors exposing structured details, such as
// per-field problems.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode is implemented by errors with a machine readable code. [Error]
// reports the code of its kind.
type ErrorCode interface {
	error
	Code() string
}

// NewRFC9457 returns a problem details formatter. Problem types are
// baseURL + "/" + code; without baseURL the bare code is used.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// NewHTML returns the default HTML formatter.
func NewHTML() *HTML {
	return &HTML{}
}

// StatusOf returns the status declared by err through [ErrorType], or 500.
func StatusOf(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// WithStatus attaches status to err. A nil err renders as the status text.
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }
