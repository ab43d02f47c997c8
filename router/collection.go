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

package router

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/router/route"
)

// ErrRouteNotFound is returned by [Collection.URL] for an unknown route name.
var ErrRouteNotFound = errors.New("route not found")

// Collection is an ordered set of frozen routes with unique names.
// It is safe for concurrent use.
type Collection struct {
	mu      sync.RWMutex
	routes  []*route.Route
	byName  map[string]*route.Route
	static  map[string][]int // first literal segment -> route positions
	dynamic []int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		byName: make(map[string]*route.Route),
		static: make(map[string][]int),
	}
}

// Add appends r and freezes it. Route names must be unique.
func (c *Collection) Add(r *route.Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byName[r.Name()]; ok {
		return serrors.Configuration("A route with the name [%s] already exists.", r.Name())
	}
	r.Freeze()

	pos := len(c.routes)
	c.routes = append(c.routes, r)
	c.byName[r.Name()] = r
	if lit := r.Template().FirstLiteral(); lit != "" {
		c.static[lit] = append(c.static[lit], pos)
	} else {
		c.dynamic = append(c.dynamic, pos)
	}
	return nil
}

// Len returns the number of routes.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.routes)
}

// Routes returns the routes in registration order.
func (c *Collection) Routes() []*route.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.routes)
}

// FindByName returns the route registered under name.
func (c *Collection) FindByName(name string) (*route.Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byName[name]
	return r, ok
}

// Match returns the first route matching req, or nil. Errors come from
// conditions that can not be built.
func (c *Collection) Match(req *message.Request) (*route.Match, error) {
	for _, r := range c.candidates(req.RoutingPath()) {
		m, err := r.Match(req)
		if err != nil {
			return nil, fmt.Errorf("match route [%s]: %w", r.Name(), err)
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}

// URL builds the path of the named route.
func (c *Collection) URL(name string, args map[string]string) (string, error) {
	r, ok := c.FindByName(name)
	if !ok {
		return "", fmt.Errorf("%w: [%s]", ErrRouteNotFound, name)
	}
	return r.URL(args)
}

// candidates merges the static bucket of the first path segment with the
// dynamic bucket, keeping registration order.
func (c *Collection) candidates(path string) []*route.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()

	static := c.static[firstSegment(path)]
	out := make([]*route.Route, 0, len(static)+len(c.dynamic))

	i, j := 0, 0
	for i < len(static) || j < len(c.dynamic) {
		if j == len(c.dynamic) || (i < len(static) && static[i] < c.dynamic[j]) {
			out = append(out, c.routes[static[i]])
			i++
			continue
		}
		out = append(out, c.routes[c.dynamic[j]])
		j++
	}
	return out
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return seg
}
