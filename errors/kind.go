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
	"fmt"
	"net/http"
)

// Kind classifies an [Error].
type Kind uint8

const (
	// KindInternal is used for errors that carry no more specific kind.
	KindInternal Kind = iota
	// KindConfiguration reports route or middleware misconfiguration.
	KindConfiguration
	// KindInvalidResponse reports a controller return value of an unsupported type.
	KindInvalidResponse
	// KindNotFound reports a missing route for a request class that requires one.
	KindNotFound
	// KindAuthorization reports a failed capability check.
	KindAuthorization
	// KindInvalidSignature reports a tampered or expired signed URL.
	KindInvalidSignature
)

// Render selects how much of an error a formatter may expose.
type Render uint8

const (
	// RenderPrivate shows only the status text. The message stays in the logs.
	RenderPrivate Render = iota
	// RenderPublic shows the error message to the client.
	RenderPublic
)

type kindInfo struct {
	name   string
	code   string
	status int
	render Render
}

var kinds = [...]kindInfo{
	KindInternal:         {"internal", "internal_error", http.StatusInternalServerError, RenderPrivate},
	KindConfiguration:    {"configuration", "configuration_error", http.StatusInternalServerError, RenderPrivate},
	KindInvalidResponse:  {"invalid_response", "invalid_response", http.StatusInternalServerError, RenderPrivate},
	KindNotFound:         {"not_found", "not_found", http.StatusNotFound, RenderPublic},
	KindAuthorization:    {"authorization", "forbidden", http.StatusForbidden, RenderPublic},
	KindInvalidSignature: {"invalid_signature", "invalid_signature", http.StatusForbidden, RenderPublic},
}

func (k Kind) info() kindInfo {
	if int(k) < len(kinds) {
		return kinds[k]
	}
	return kinds[KindInternal]
}

// String returns the kind name.
func (k Kind) String() string { return k.info().name }

// HTTPStatus returns the status code used when an error of this kind reaches a client.
func (k Kind) HTTPStatus() int { return k.info().status }

// Render returns the render strategy of the kind.
func (k Kind) Render() Render { return k.info().render }

// Error is the error type raised by the routing core.
type Error struct {
	// Kind tags the error.
	Kind Kind
	// Message is the human readable description.
	Message string
	// Route names the offending route, if any.
	Route string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return e.Message + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus implements [ErrorType].
func (e *Error) HTTPStatus() int { return e.Kind.HTTPStatus() }

// Code implements [ErrorCode].
func (e *Error) Code() string { return e.Kind.info().code }

// Is reports whether target is an *Error of the same kind.
// This lets callers write errors.Is(err, &errors.Error{Kind: errors.KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Configuration returns a KindConfiguration error with a formatted message.
func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// WrapConfiguration returns a KindConfiguration error wrapping err.
func WrapConfiguration(err error, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...), Err: err}
}

// InvalidResponse returns the error raised when the action of route returned an
// unsupported value. got describes the offending value's type.
func InvalidResponse(route, got string) *Error {
	return &Error{
		Kind:    KindInvalidResponse,
		Route:   route,
		Message: fmt.Sprintf("The response returned by the route action is not valid. Route [%s] returned [%s].", route, got),
	}
}

// NotFound returns a KindNotFound error for path.
func NotFound(path string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("No route matches [%s].", path)}
}

// Authorization returns a KindAuthorization error.
func Authorization(message string) *Error {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	return &Error{Kind: KindAuthorization, Message: message}
}

// InvalidSignature returns a KindInvalidSignature error.
func InvalidSignature(message string) *Error {
	if message == "" {
		message = "Your link is invalid or has expired."
	}
	return &Error{Kind: KindInvalidSignature, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// publicMessage returns the text a formatter may show for err.
func publicMessage(err error, status int) string {
	var e *Error
	if errors.As(err, &e) && e.Kind.Render() == RenderPublic {
		return e.Message
	}
	return http.StatusText(status)
}
