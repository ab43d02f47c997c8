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
	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
)

// Pipeline is a resolved chain bound to a registry.
type Pipeline struct {
	registry *Registry
	entries  []Entry
}

// Pipeline returns a chain over entries.
func (r *Registry) Pipeline(entries []Entry) *Pipeline {
	return &Pipeline{registry: r, entries: entries}
}

// Entries returns the chain entries.
func (p *Pipeline) Entries() []Entry { return p.entries }

// Then runs req through the chain and finally through terminal. A handler
// that does not call next short-circuits the rest of the chain. Each handler
// is built when the chain first reaches it.
func (p *Pipeline) Then(req *message.Request, terminal Next) (*message.Response, error) {
	e := &execution{
		pipeline:  p,
		terminal:  terminal,
		instances: make([]Handler, len(p.entries)),
	}
	return e.next(0)(req)
}

// execution holds the handlers built during one run.
type execution struct {
	pipeline  *Pipeline
	terminal  Next
	instances []Handler
}

func (e *execution) next(i int) Next {
	return func(req *message.Request) (*message.Response, error) {
		if i >= len(e.pipeline.entries) {
			return e.terminal(req)
		}
		h, err := e.instance(i)
		if err != nil {
			return nil, err
		}
		return h.Handle(req, e.next(i+1))
	}
}

func (e *execution) instance(i int) (Handler, error) {
	if h := e.instances[i]; h != nil {
		return h, nil
	}

	entry := e.pipeline.entries[i]
	factory, ok := e.pipeline.registry.factory(entry.Key)
	if !ok {
		return nil, serrors.Configuration("Middleware [%s] could not be resolved.", entry.Key)
	}
	h, err := factory(entry.Args...)
	if err != nil {
		return nil, serrors.WrapConfiguration(err, "Middleware [%s] could not be built", entry.String())
	}
	if h == nil {
		return nil, serrors.Configuration("Middleware [%s] factory returned no handler.", entry.String())
	}
	e.instances[i] = h
	return h, nil
}
