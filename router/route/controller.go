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
	"errors"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/router/compiler"
)

const (
	// Delegate is the controller sentinel of routes that match without
	// producing a body. They exist to run middleware, conditions and query
	// filters while the host keeps rendering the page.
	Delegate = "delegate"

	// InvokeMethod is the method used for bare class references.
	InvokeMethod = "__invoke"
)

// ErrFrozen is returned by mutators of a route that was added to a collection.
var ErrFrozen = errors.New("route is frozen")

// Kind tells the controller flavours apart.
type Kind uint8

const (
	// KindController is a (class, method) pair resolved through [Controllers].
	KindController Kind = iota
	// KindClosure is an inline [Action]. Closure routes can not be cached.
	KindClosure
	// KindDelegate is a route without controller.
	KindDelegate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindClosure:
		return "closure"
	case KindDelegate:
		return "delegate"
	default:
		return "unknown"
	}
}

// Controller is a (class, method) reference.
type Controller struct {
	Class  string `msgpack:"class"`
	Method string `msgpack:"method"`
}

// String renders the reference as "Class@method".
func (c Controller) String() string { return c.Class + "@" + c.Method }

func (c Controller) normalize(namespace string) Controller {
	c.Class = strings.TrimSpace(c.Class)
	c.Method = strings.TrimSpace(c.Method)
	if c.Method == "" {
		c.Method = InvokeMethod
	}
	if namespace != "" && c.Class != Delegate && !strings.Contains(c.Class, ".") {
		c.Class = strings.TrimSuffix(namespace, ".") + "." + c.Class
	}
	return c
}

// Action is a controller method. It receives the request and the arguments
// captured while matching, and returns one of the values accepted by
// [message.FromResult].
type Action func(req *message.Request, args Arguments) (any, error)

// QueryFilter rewrites the host's query variables for a matched route.
type QueryFilter func(vars url.Values, args Arguments) url.Values

// Param is a captured or defaulted segment value.
type Param struct {
	Name  string
	Value any
}

// Arguments are handed to actions: segment values in template order first,
// then the values extracted by the route's conditions.
type Arguments struct {
	Params     []Param
	Conditions []any
}

func newArguments(tpl *compiler.Template, captured map[string]string, defaults map[string]any, condArgs []any) Arguments {
	args := Arguments{Conditions: condArgs}
	used := make(map[string]bool, len(tpl.Segments))

	for _, seg := range tpl.Segments {
		used[seg.Name] = true
		if v, ok := captured[seg.Name]; ok {
			args.Params = append(args.Params, Param{Name: seg.Name, Value: v})
			continue
		}
		if v, ok := defaults[seg.Name]; ok {
			args.Params = append(args.Params, Param{Name: seg.Name, Value: v})
		}
	}

	for _, name := range slices.Sorted(maps.Keys(defaults)) {
		if !used[name] {
			args.Params = append(args.Params, Param{Name: name, Value: defaults[name]})
		}
	}
	return args
}

// Get returns the parameter bound to name.
func (a Arguments) Get(name string) (any, bool) {
	for _, p := range a.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// StringValue returns the parameter bound to name as a string, or "".
func (a Arguments) StringValue(name string) string {
	v, ok := a.Get(name)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatPrimitive(v)
}

// Positional returns every argument in call order.
func (a Arguments) Positional() []any {
	out := make([]any, 0, len(a.Params)+len(a.Conditions))
	for _, p := range a.Params {
		out = append(out, p.Value)
	}
	return append(out, a.Conditions...)
}

// Match is the request scoped result of matching a route.
type Match struct {
	Route     *Route
	Arguments Arguments
}

// Controllers maps class names to their methods, and query filter names to
// filters. A nil *Controllers resolves nothing.
type Controllers struct {
	mu      sync.RWMutex
	classes map[string]map[string]Action
	filters map[string]QueryFilter
}

// NewControllers returns an empty registry.
func NewControllers() *Controllers {
	return &Controllers{
		classes: make(map[string]map[string]Action),
		filters: make(map[string]QueryFilter),
	}
}

// Register binds the methods of class. Registering a class again adds or
// replaces methods.
func (c *Controllers) Register(class string, methods map[string]Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.classes[class]
	if !ok {
		existing = make(map[string]Action, len(methods))
		c.classes[class] = existing
	}
	maps.Copy(existing, methods)
}

// RegisterInvokable binds a class whose only method is [InvokeMethod].
func (c *Controllers) RegisterInvokable(class string, action Action) {
	c.Register(class, map[string]Action{InvokeMethod: action})
}

// RegisterQueryFilter binds a query filter to name.
func (c *Controllers) RegisterQueryFilter(name string, f QueryFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[name] = f
}

// Resolve returns the action of ref.
func (c *Controllers) Resolve(ref Controller) (Action, error) {
	if c == nil {
		return nil, serrors.Configuration("Controller class [%s] does not exist.", ref.Class)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	methods, ok := c.classes[ref.Class]
	if !ok {
		return nil, serrors.Configuration("Controller class [%s] does not exist.", ref.Class)
	}
	action, ok := methods[ref.Method]
	if !ok || action == nil {
		return nil, serrors.Configuration("The method [%s::%s] is not callable.", ref.Class, ref.Method)
	}
	return action, nil
}

// QueryFilter returns the filter registered under name.
func (c *Controllers) QueryFilter(name string) (QueryFilter, error) {
	if c != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if f, ok := c.filters[name]; ok && f != nil {
			return f, nil
		}
	}
	return nil, serrors.Configuration("Query filter [%s] is not registered.", name)
}
