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

package route

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
	"github.com/szepeviktor/snicco/router/compiler"
)

// Methods accepted by [New].
var (
	DefaultMethods = []string{"GET", "HEAD"}
	AllMethods     = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
)

// Route is a compiled binding from methods and a path template to a controller.
type Route struct {
	name    string
	tpl     *compiler.Template
	pattern *compiler.Pattern
	methods []string

	kind       Kind
	controller Controller
	action     Action

	middleware   []string
	conditions   []ConditionBlueprint
	requirements map[string]string
	defaults     map[string]any

	queryFilter string
	filter      QueryFilter

	controllers *Controllers
	registry    *Conditions

	frozen bool
	mu     sync.Mutex
}

// Option configures [New].
type Option func(*config)

type config struct {
	name        string
	methods     []string
	namespace   string
	controllers *Controllers
	conditions  *Conditions
}

// WithName sets the route name. Without it a name is derived from the pattern
// and the controller.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithMethods sets the accepted HTTP methods. The default is GET and HEAD.
func WithMethods(methods ...string) Option {
	return func(c *config) { c.methods = methods }
}

// WithNamespace prefixes class references that are not already qualified.
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

// WithControllers sets the registry class references are resolved against.
func WithControllers(reg *Controllers) Option {
	return func(c *config) { c.controllers = reg }
}

// WithConditions sets the registry condition names are resolved against.
// Without it [NewConditions] is used.
func WithConditions(reg *Conditions) Option {
	return func(c *config) { c.conditions = reg }
}

// New builds a route. controller is one of:
//   - a string "Class", "Class@method" or [Delegate]
//   - a []string{class} or []string{class, method}
//   - a [Controller]
//   - an [Action] or a function with the same signature
func New(pattern string, controller any, opts ...Option) (*Route, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.conditions == nil {
		cfg.conditions = NewConditions()
	}

	tpl, err := compiler.Parse(pattern)
	if err != nil {
		return nil, err
	}

	methods, err := normalizeMethods(cfg.methods)
	if err != nil {
		return nil, err
	}

	r := &Route{
		tpl:          tpl,
		methods:      methods,
		requirements: make(map[string]string),
		defaults:     make(map[string]any),
		controllers:  cfg.controllers,
		registry:     cfg.conditions,
	}

	if err := r.setController(controller, cfg.namespace); err != nil {
		return nil, err
	}

	if r.pattern, err = compiler.Compile(tpl, nil); err != nil {
		return nil, err
	}

	name := cfg.name
	if name == "" {
		name = r.generatedName()
	}
	if strings.HasPrefix(name, ".") {
		return nil, serrors.Configuration("Route name [%s] can not start with a dot.", name)
	}
	r.name = name

	return r, nil
}

func normalizeMethods(in []string) ([]string, error) {
	if len(in) == 0 {
		return slices.Clone(DefaultMethods), nil
	}
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !slices.Contains(AllMethods, m) {
			return nil, serrors.Configuration("Method [%s] is not supported.", m)
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *Route) setController(controller any, namespace string) error {
	switch c := controller.(type) {
	case Action:
		return r.setClosure(c)
	case func(*message.Request, Arguments) (any, error):
		return r.setClosure(c)
	case string:
		if c == Delegate {
			r.kind = KindDelegate
			r.controller = Controller{Class: Delegate}
			return nil
		}
		class, method, _ := strings.Cut(c, "@")
		return r.setClass(Controller{Class: class, Method: method}, namespace)
	case []string:
		switch len(c) {
		case 1:
			return r.setClass(Controller{Class: c[0]}, namespace)
		case 2:
			return r.setClass(Controller{Class: c[0], Method: c[1]}, namespace)
		default:
			return serrors.Configuration("Controller must be [class, method] but got %d elements.", len(c))
		}
	case Controller:
		return r.setClass(c, namespace)
	default:
		return serrors.Configuration(
			"Controller has to be a class reference, [class, method] or a route.Action. Got [%T].", controller)
	}
}

func (r *Route) setClosure(a Action) error {
	if a == nil {
		return serrors.Configuration("Controller closure can not be nil.")
	}
	r.kind = KindClosure
	r.action = a
	return nil
}

func (r *Route) setClass(c Controller, namespace string) error {
	c = c.normalize(namespace)
	if c.Class == Delegate {
		r.kind = KindDelegate
		r.controller = Controller{Class: Delegate}
		return nil
	}

	action, err := r.controllers.Resolve(c)
	if err != nil {
		return err
	}
	r.kind = KindController
	r.controller = c
	r.action = action
	return nil
}

func (r *Route) generatedName() string {
	switch r.kind {
	case KindDelegate:
		return r.tpl.Raw + ":" + Delegate
	case KindClosure:
		return r.tpl.Raw + ":closure@" + strings.Join(r.methods, ",")
	default:
		return r.tpl.Raw + ":" + r.controller.String() + "@" + strings.Join(r.methods, ",")
	}
}

// Name returns the unique route name.
func (r *Route) Name() string { return r.name }

// Pattern returns the raw path template.
func (r *Route) Pattern() string { return r.tpl.Raw }

// Template returns the tokenized template.
func (r *Route) Template() *compiler.Template { return r.tpl }

// Methods returns the accepted HTTP methods.
func (r *Route) Methods() []string { return slices.Clone(r.methods) }

// AllowsMethod reports whether the route accepts method.
func (r *Route) AllowsMethod(method string) bool { return slices.Contains(r.methods, method) }

// Kind returns the controller kind.
func (r *Route) Kind() Kind { return r.kind }

// Controller returns the normalized (class, method) pair. A bare class
// reference is reported with method [InvokeMethod]. Closure routes return the
// zero value.
func (r *Route) Controller() Controller { return r.controller }

// Action returns the resolved controller action, or nil for delegate routes.
func (r *Route) Action() Action { return r.action }

// Middleware returns the middleware identifiers in registration order.
func (r *Route) Middleware() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.middleware)
}

// Conditions returns the condition blueprints in registration order.
func (r *Route) Conditions() []ConditionBlueprint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ConditionBlueprint, len(r.conditions))
	for i, c := range r.conditions {
		out[i] = ConditionBlueprint{Name: c.Name, Args: slices.Clone(c.Args)}
	}
	return out
}

// Requirements returns the per-segment requirement regexes.
func (r *Route) Requirements() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.requirements)
}

// Defaults returns the default values.
func (r *Route) Defaults() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.defaults)
}

// QueryFilterName returns the name of the query filter, or "".
func (r *Route) QueryFilterName() string { return r.queryFilter }

// QueryFilter returns the resolved query filter, or nil.
func (r *Route) QueryFilter() QueryFilter { return r.filter }

// CompiledPattern returns the compiled matcher and builder.
func (r *Route) CompiledPattern() *compiler.Pattern {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pattern
}

// MatchesOnlyWithTrailingSlash reports whether the raw pattern ends in "/".
func (r *Route) MatchesOnlyWithTrailingSlash() bool { return r.tpl.TrailingSlash }

// Freeze makes the route immutable. Collections call it when a route is added.
func (r *Route) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether the route was frozen.
func (r *Route) Frozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen
}

func (r *Route) checkMutable() error {
	if r.frozen {
		return fmt.Errorf("%w: [%s]", ErrFrozen, r.name)
	}
	return nil
}

// SetName renames a route that is not frozen yet.
func (r *Route) SetName(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkMutable(); err != nil {
		return err
	}
	if name == "" {
		return serrors.Configuration("Route name can not be empty.")
	}
	if strings.HasPrefix(name, ".") {
		return serrors.Configuration("Route name [%s] can not start with a dot.", name)
	}
	r.name = name
	return nil
}

// AddRequirements attaches requirement regexes to declared segments. An
// existing requirement is never overwritten.
func (r *Route) AddRequirements(requirements map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkMutable(); err != nil {
		return err
	}

	names := slices.Sorted(maps.Keys(requirements))
	var unknown []string
	for _, name := range names {
		if !r.tpl.HasSegment(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return serrors.Configuration("Expected one of the valid segment names: %s. Got: %s.",
			quoteList(r.tpl.SegmentNames()), quoteList(unknown))
	}
	for _, name := range names {
		if _, ok := r.requirements[name]; ok {
			return serrors.Configuration("Requirement for segment [%s] can not be overwritten.", name)
		}
	}

	merged := maps.Clone(r.requirements)
	maps.Copy(merged, requirements)
	pattern, err := compiler.Compile(r.tpl, merged)
	if err != nil {
		return err
	}

	r.requirements = merged
	r.pattern = pattern
	return nil
}

// AddDefaults attaches default values. Values must be primitives. Integers are
// stored as int64 and floats as float64.
func (r *Route) AddDefaults(defaults map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkMutable(); err != nil {
		return err
	}

	normalized := make(map[string]any, len(defaults))
	for _, k := range slices.Sorted(maps.Keys(defaults)) {
		if _, ok := r.defaults[k]; ok {
			return serrors.Configuration("Default for segment [%s] can not be overwritten.", k)
		}
		nv, ok := normalizePrimitive(defaults[k])
		if !ok {
			return serrors.Configuration("A route default value has to be a primitive type.")
		}
		normalized[k] = nv
	}
	maps.Copy(r.defaults, normalized)
	return nil
}

// AddCondition registers the condition name with args. The condition is built
// once to validate its arguments. Args must be primitives.
func (r *Route) AddCondition(name string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkMutable(); err != nil {
		return err
	}

	if !r.registry.Has(name) {
		return serrors.Configuration("Condition [%s] is not registered.", name)
	}
	for _, c := range r.conditions {
		if c.Name == name {
			return serrors.Configuration("Condition [%s] was added twice to route [%s].", name, r.name)
		}
	}

	normalized := make([]any, len(args))
	for i, a := range args {
		na, ok := normalizePrimitive(a)
		if !ok {
			return serrors.Configuration("Arguments of condition [%s] have to be primitive types.", name)
		}
		normalized[i] = na
	}
	if _, err := r.registry.New(name, normalized); err != nil {
		return err
	}

	r.conditions = append(r.conditions, ConditionBlueprint{Name: name, Args: normalized})
	return nil
}

// AddMiddleware appends middleware identifiers. An identifier whose name was
// already added fails, whatever its arguments.
func (r *Route) AddMiddleware(ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkMutable(); err != nil {
		return err
	}

	names := make(map[string]bool, len(r.middleware)+len(ids))
	for _, existing := range r.middleware {
		names[middleware.ParseIdentifier(existing).Name] = true
	}

	added := make([]string, 0, len(ids))
	for _, id := range ids {
		ident := middleware.ParseIdentifier(id)
		if ident.Name == "" {
			return serrors.Configuration("Middleware identifier can not be empty on route [%s].", r.name)
		}
		if names[ident.Name] {
			return serrors.Configuration("Middleware [%s] added twice to route [%s].", ident.Name, r.name)
		}
		names[ident.Name] = true
		added = append(added, ident.String())
	}

	r.middleware = append(r.middleware, added...)
	return nil
}

// SetQueryFilter attaches the query filter registered under name.
func (r *Route) SetQueryFilter(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkMutable(); err != nil {
		return err
	}

	filter, err := r.controllers.QueryFilter(name)
	if err != nil {
		return err
	}
	r.queryFilter = name
	r.filter = filter
	return nil
}

// Match matches req against the route. It checks the method, the path and
// every condition in registration order. Condition arguments are extracted
// from req during the call.
func (r *Route) Match(req *message.Request) (*Match, error) {
	if !r.AllowsMethod(req.Method()) {
		return nil, nil
	}

	r.mu.Lock()
	pattern, conditions, defaults := r.pattern, r.conditions, r.defaults
	r.mu.Unlock()

	captured, ok := pattern.Match(req.RoutingPath())
	if !ok {
		return nil, nil
	}

	var condArgs []any
	for _, bp := range conditions {
		cond, err := r.registry.New(bp.Name, bp.Args)
		if err != nil {
			return nil, err
		}
		if !cond.IsSatisfied(req) {
			return nil, nil
		}
		condArgs = append(condArgs, cond.Arguments(req)...)
	}

	return &Match{
		Route:     r,
		Arguments: newArguments(r.tpl, captured, defaults, condArgs),
	}, nil
}

// URL builds a path for the route from args. Default values fill in missing
// segments.
func (r *Route) URL(args map[string]string) (string, error) {
	values := make(map[string]string, len(args))
	for k, v := range r.Defaults() {
		if v != nil {
			values[k] = fmt.Sprint(v)
		}
	}
	maps.Copy(values, args)
	return r.CompiledPattern().Build(values)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return "[" + strings.Join(quoted, ",") + "]"
}
