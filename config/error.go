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

package config

import "fmt"

// Error represents a configuration error with detailed context.
type Error struct {
	Source    string // where the error occurred, e.g. "file", "env", "dotenv", "kernel"
	Field     string // the offending key, if known
	Operation string // "load", "decode", "merge", "bind" or "validate"
	Err       error  // the underlying error
}

// Error returns a formatted error message with context information.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s.%s during %s: %v",
			e.Source, e.Field, e.Operation, e.Err)
	}
	return fmt.Sprintf("config error in %s during %s: %v",
		e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an [Error] without field information.
func NewError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

// NewFieldError creates an [Error] for a specific key.
func NewFieldError(source, field, operation string, err error) *Error {
	return &Error{Source: source, Field: field, Operation: operation, Err: err}
}
