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

package middleware

import (
	"github.com/szepeviktor/snicco/message"
)

// Next invokes the rest of the chain.
type Next func(req *message.Request) (*message.Response, error)

// Handler is a middleware. It either returns a response of its own or calls
// next and returns, possibly after changing, the response it gets.
type Handler interface {
	Handle(req *message.Request, next Next) (*message.Response, error)
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(req *message.Request, next Next) (*message.Response, error)

// Handle calls f.
func (f HandlerFunc) Handle(req *message.Request, next Next) (*message.Response, error) {
	return f(req, next)
}

// Factory builds a handler from the arguments of an identifier.
type Factory func(args ...string) (Handler, error)

// Static returns a factory that always returns h and ignores arguments.
func Static(h Handler) Factory {
	return func(...string) (Handler, error) { return h, nil }
}

// Entry is a resolved chain node: a registered key and its arguments.
type Entry struct {
	Key  string
	Args []string
}

// String renders the entry as an identifier.
func (e Entry) String() string {
	return Identifier{Name: e.Key, Args: e.Args}.String()
}

// Dedupe drops entries whose key is in seen or repeats within entries. Kept
// keys are added to seen.
func Dedupe(entries []Entry, seen map[string]bool) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		out = append(out, e)
	}
	return out
}
