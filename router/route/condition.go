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
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/spf13/cast"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
)

// Condition is a request-time predicate a route needs in addition to method
// and path.
type Condition interface {
	// IsSatisfied reports whether req meets the condition.
	IsSatisfied(req *message.Request) bool
	// Arguments returns values appended to the action arguments.
	Arguments(req *message.Request) []any
}

// ConditionFactory builds a condition from the arguments given at
// registration.
type ConditionFactory func(args ...any) (Condition, error)

// ConditionBlueprint is the registration-time description of a condition.
type ConditionBlueprint struct {
	Name string
	Args []any
}

// Names of the built-in conditions.
const (
	ConditionQueryString = "query_string"
	ConditionHeader      = "header"
)

// Conditions maps condition names to factories.
type Conditions struct {
	mu        sync.RWMutex
	factories map[string]ConditionFactory
}

// NewConditions returns a registry holding the built-in conditions.
func NewConditions() *Conditions {
	return &Conditions{
		factories: map[string]ConditionFactory{
			ConditionQueryString: newQueryStringCondition,
			ConditionHeader:      newHeaderCondition,
		},
	}
}

// Register binds factory to name.
func (c *Conditions) Register(name string, factory ConditionFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

// Has reports whether name is registered.
func (c *Conditions) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[name]
	return ok
}

// Names returns the registered names, sorted.
func (c *Conditions) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.factories))
}

// New builds the condition name with args.
func (c *Conditions) New(name string, args []any) (Condition, error) {
	c.mu.RLock()
	factory, ok := c.factories[name]
	c.mu.RUnlock()
	if !ok {
		return nil, serrors.Configuration("Condition [%s] is not registered.", name)
	}
	cond, err := factory(args...)
	if err != nil {
		return nil, serrors.WrapConfiguration(err, "Condition [%s] could not be built", name)
	}
	return cond, nil
}

// queryStringCondition requires every key/value pair to be present in the
// query string. It passes the values on as arguments.
type queryStringCondition struct {
	pairs [][2]string
}

func newQueryStringCondition(args ...any) (Condition, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, serrors.Configuration("query_string expects key/value pairs, got %d arguments.", len(args))
	}
	c := &queryStringCondition{}
	for i := 0; i < len(args); i += 2 {
		c.pairs = append(c.pairs, [2]string{cast.ToString(args[i]), cast.ToString(args[i+1])})
	}
	return c, nil
}

func (c *queryStringCondition) IsSatisfied(req *message.Request) bool {
	for _, p := range c.pairs {
		if req.QueryValue(p[0]) != p[1] {
			return false
		}
	}
	return true
}

func (c *queryStringCondition) Arguments(req *message.Request) []any {
	out := make([]any, len(c.pairs))
	for i, p := range c.pairs {
		out[i] = req.QueryValue(p[0])
	}
	return out
}

// headerCondition requires a header to carry a value.
type headerCondition struct {
	name, value string
}

func newHeaderCondition(args ...any) (Condition, error) {
	if len(args) != 2 {
		return nil, serrors.Configuration("header expects a name and a value, got %d arguments.", len(args))
	}
	return &headerCondition{name: cast.ToString(args[0]), value: cast.ToString(args[1])}, nil
}

func (c *headerCondition) IsSatisfied(req *message.Request) bool {
	return req.Header(c.name) == c.value
}

func (c *headerCondition) Arguments(req *message.Request) []any {
	return []any{req.Header(c.name)}
}

// normalizePrimitive returns v as nil, string, bool, int64 or float64.
func normalizePrimitive(v any) (any, bool) {
	switch t := v.(type) {
	case nil, string, bool, int64, float64:
		return t, true
	case int, int8, int16, int32, uint8, uint16, uint32:
		return cast.ToInt64(t), true
	case uint, uint64:
		n, err := cast.ToInt64E(t)
		return n, err == nil
	case float32:
		return cast.ToFloat64(t), true
	default:
		return nil, false
	}
}

func formatPrimitive(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return cast.ToString(v)
	}
}
