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
	"net/url"
	"strings"
	"sync"

	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/router/route"
)

// DefaultAdminPrefix is the path admin pages live under.
const DefaultAdminPrefix = "/wp-admin"

// Router collects route declarations. Groups created with [Router.Group]
// share the declarations of their parent.
type Router struct {
	shared     *shared
	prefix     string
	namePrefix string
	middleware []string
}

type shared struct {
	mu          sync.Mutex
	routes      *Collection
	controllers *route.Controllers
	conditions  *route.Conditions
	namespace   string
	adminPrefix string
	pending     []*Registration
}

// Option configures a [Router].
type Option func(*shared)

// WithControllers sets the registry controller references are resolved
// against.
func WithControllers(reg *route.Controllers) Option {
	return func(s *shared) { s.controllers = reg }
}

// WithConditions sets the condition registry.
func WithConditions(reg *route.Conditions) Option {
	return func(s *shared) { s.conditions = reg }
}

// WithNamespace prefixes unqualified controller classes.
func WithNamespace(ns string) Option {
	return func(s *shared) { s.namespace = ns }
}

// WithAdminPrefix sets the path admin pages live under.
func WithAdminPrefix(prefix string) Option {
	return func(s *shared) { s.adminPrefix = "/" + strings.Trim(prefix, "/") }
}

// WithCollection loads declarations into an existing collection, for example
// one restored from a cache.
func WithCollection(c *Collection) Option {
	return func(s *shared) { s.routes = c }
}

// New returns a router with an empty collection.
func New(opts ...Option) *Router {
	s := &shared{adminPrefix: DefaultAdminPrefix}
	for _, opt := range opts {
		opt(s)
	}
	if s.routes == nil {
		s.routes = NewCollection()
	}
	if s.controllers == nil {
		s.controllers = route.NewControllers()
	}
	if s.conditions == nil {
		s.conditions = route.NewConditions()
	}
	return &Router{shared: s}
}

// Routes returns the collection declarations are loaded into.
func (r *Router) Routes() *Collection { return r.shared.routes }

// Controllers returns the controller registry of the router.
func (r *Router) Controllers() *route.Controllers { return r.shared.controllers }

// Get declares a GET and HEAD route.
func (r *Router) Get(pattern string, controller any, name ...string) *Registration {
	return r.Match(route.DefaultMethods, pattern, controller, name...)
}

// Post declares a POST route.
func (r *Router) Post(pattern string, controller any, name ...string) *Registration {
	return r.Match([]string{"POST"}, pattern, controller, name...)
}

// Put declares a PUT route.
func (r *Router) Put(pattern string, controller any, name ...string) *Registration {
	return r.Match([]string{"PUT"}, pattern, controller, name...)
}

// Patch declares a PATCH route.
func (r *Router) Patch(pattern string, controller any, name ...string) *Registration {
	return r.Match([]string{"PATCH"}, pattern, controller, name...)
}

// Delete declares a DELETE route.
func (r *Router) Delete(pattern string, controller any, name ...string) *Registration {
	return r.Match([]string{"DELETE"}, pattern, controller, name...)
}

// Options declares an OPTIONS route.
func (r *Router) Options(pattern string, controller any, name ...string) *Registration {
	return r.Match([]string{"OPTIONS"}, pattern, controller, name...)
}

// Any declares a route for every supported method.
func (r *Router) Any(pattern string, controller any, name ...string) *Registration {
	return r.Match(route.AllMethods, pattern, controller, name...)
}

// Admin declares a GET route for the admin page slug. It matches admin
// requests to "<admin prefix>/admin.php?page=<slug>".
func (r *Router) Admin(slug string, controller any, name ...string) *Registration {
	pattern := r.shared.adminPrefix + "/" + message.AdminPage + "/" + strings.Trim(slug, "/")
	return r.declare(route.DefaultMethods, pattern, controller, name)
}

// AdminURL returns the URL of the admin page slug.
func (r *Router) AdminURL(slug string) string {
	return r.shared.adminPrefix + "/" + message.AdminPage + "?page=" + url.QueryEscape(slug)
}

// Match declares a route for methods. The optional name is prefixed with the
// group's name prefix.
func (r *Router) Match(methods []string, pattern string, controller any, name ...string) *Registration {
	return r.declare(methods, joinPath(r.prefix, pattern), controller, name)
}

// Group returns a router that prefixes patterns with prefix, names with
// namePrefix and adds middleware to every route declared through it.
func (r *Router) Group(prefix, namePrefix string, middleware ...string) *Router {
	mw := make([]string, 0, len(r.middleware)+len(middleware))
	mw = append(mw, r.middleware...)
	mw = append(mw, middleware...)

	return &Router{
		shared:     r.shared,
		prefix:     joinPath(r.prefix, prefix),
		namePrefix: joinName(r.namePrefix, namePrefix),
		middleware: mw,
	}
}

func (r *Router) declare(methods []string, pattern string, controller any, name []string) *Registration {
	s := r.shared
	opts := []route.Option{
		route.WithMethods(methods...),
		route.WithNamespace(s.namespace),
		route.WithControllers(s.controllers),
		route.WithConditions(s.conditions),
	}
	if len(name) > 0 && name[0] != "" {
		opts = append(opts, route.WithName(joinName(r.namePrefix, name[0])))
	}

	reg := &Registration{namePrefix: r.namePrefix}
	rt, err := route.New(pattern, controller, opts...)
	if err != nil {
		reg.errs = append(reg.errs, err)
	} else {
		reg.route = rt
		if len(r.middleware) > 0 {
			reg.Middleware(r.middleware...)
		}
	}

	s.mu.Lock()
	s.pending = append(s.pending, reg)
	s.mu.Unlock()
	return reg
}

// Load adds every pending declaration to the collection. Declarations with
// errors are skipped; all errors are returned joined.
func (r *Router) Load() (*Collection, error) {
	s := r.shared
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	var errs []error
	for _, reg := range pending {
		if err := reg.Err(); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.routes.Add(reg.route); err != nil {
			errs = append(errs, err)
		}
	}
	return s.routes, errors.Join(errs...)
}

// URL builds the path of a loaded route.
func (r *Router) URL(name string, args map[string]string) (string, error) {
	return r.shared.routes.URL(name, args)
}

// Registration configures a declared route until it is loaded. Errors are
// collected and reported by [Router.Load].
type Registration struct {
	route      *route.Route
	namePrefix string
	errs       []error
}

// Route returns the declared route, or nil if it could not be built.
func (g *Registration) Route() *route.Route { return g.route }

// Err returns the collected errors.
func (g *Registration) Err() error { return errors.Join(g.errs...) }

// Name sets the route name, prefixed with the group's name prefix.
func (g *Registration) Name(name string) *Registration {
	return g.apply(func(rt *route.Route) error { return rt.SetName(joinName(g.namePrefix, name)) })
}

// Middleware appends middleware identifiers.
func (g *Registration) Middleware(ids ...string) *Registration {
	return g.apply(func(rt *route.Route) error { return rt.AddMiddleware(ids...) })
}

// Condition adds a condition.
func (g *Registration) Condition(name string, args ...any) *Registration {
	return g.apply(func(rt *route.Route) error { return rt.AddCondition(name, args...) })
}

// Requirements adds segment requirements.
func (g *Registration) Requirements(requirements map[string]string) *Registration {
	return g.apply(func(rt *route.Route) error { return rt.AddRequirements(requirements) })
}

// Defaults adds segment defaults.
func (g *Registration) Defaults(defaults map[string]any) *Registration {
	return g.apply(func(rt *route.Route) error { return rt.AddDefaults(defaults) })
}

// FilterQuery attaches a registered query filter.
func (g *Registration) FilterQuery(name string) *Registration {
	return g.apply(func(rt *route.Route) error { return rt.SetQueryFilter(name) })
}

func (g *Registration) apply(f func(*route.Route) error) *Registration {
	if g.route == nil {
		return g
	}
	if err := f(g.route); err != nil {
		g.errs = append(g.errs, err)
	}
	return g
}

func joinPath(prefix, pattern string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" || (pattern != "" && pattern[0] != '/') {
		return pattern
	}
	if pattern == "/" || pattern == "" {
		return prefix
	}
	return prefix + pattern
}

func joinName(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	default:
		return prefix + "." + name
	}
}
