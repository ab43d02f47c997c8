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
	"maps"
	"slices"
	"sync"

	serrors "github.com/szepeviktor/snicco/errors"
)

// Registry maps middleware keys to factories and holds the alias and group
// tables identifiers are resolved through. Register and the Set methods are
// meant for bootstrap; resolving is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	aliases   map[string]string
	groups    map[string][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		aliases:   make(map[string]string),
		groups:    make(map[string][]string),
	}
}

// Register binds factory to key.
func (r *Registry) Register(key string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = factory
}

// Has reports whether key has a factory.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[key]
	return ok
}

// SetAliases replaces the alias table. An alias maps a short name to a
// registered key.
func (r *Registry) SetAliases(aliases map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases = maps.Clone(aliases)
	if r.aliases == nil {
		r.aliases = make(map[string]string)
	}
}

// SetGroups replaces the group table. A group maps a name to identifiers.
func (r *Registry) SetGroups(groups map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = make(map[string][]string, len(groups))
	for name, ids := range groups {
		r.groups[name] = slices.Clone(ids)
	}
}

// Group returns the identifiers of the named group.
func (r *Registry) Group(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.groups[name])
}

// Resolve turns identifiers into entries. A group expands into its members,
// and a group member may itself name a group one level deep. Aliases resolve
// to registered keys.
func (r *Registry) Resolve(ids []string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, id := range ids {
		entries, err := r.resolve(ParseIdentifier(id), 0)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

const maxGroupDepth = 1

func (r *Registry) resolve(ident Identifier, depth int) ([]Entry, error) {
	if members, ok := r.groups[ident.Name]; ok && depth <= maxGroupDepth {
		var out []Entry
		for _, m := range members {
			entries, err := r.resolve(ParseIdentifier(m), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	}

	key := ident.Name
	if alias, ok := r.aliases[key]; ok {
		key = alias
	}
	if _, ok := r.factories[key]; !ok {
		return nil, serrors.Configuration("Middleware [%s] could not be resolved.", ident.Name)
	}
	return []Entry{{Key: key, Args: ident.Args}}, nil
}

// Validate checks that every identifier resolves.
func (r *Registry) Validate(ids []string) error {
	_, err := r.Resolve(ids)
	return err
}

func (r *Registry) factory(key string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[key]
	return f, ok
}
