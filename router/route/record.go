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

	"github.com/spf13/cast"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/router/compiler"
)

// Value is a primitive tagged with its type, so it survives encoders that
// widen or narrow numbers.
type Value struct {
	Type string `msgpack:"t"`
	Data string `msgpack:"d"`
}

// ConditionRecord is the persisted form of a [ConditionBlueprint].
type ConditionRecord struct {
	Name string  `msgpack:"name"`
	Args []Value `msgpack:"args"`
}

// Record holds the declared fields of a route. Resolved actions and filters
// are not part of it; they are resolved again by [FromRecord].
type Record struct {
	Name         string             `msgpack:"name"`
	Methods      []string           `msgpack:"methods"`
	Kind         Kind               `msgpack:"kind"`
	Controller   Controller         `msgpack:"controller"`
	Middleware   []string           `msgpack:"middleware"`
	Conditions   []ConditionRecord  `msgpack:"conditions"`
	Requirements map[string]string  `msgpack:"requirements"`
	Defaults     map[string]Value   `msgpack:"defaults"`
	QueryFilter  string             `msgpack:"query_filter"`
	Template     *compiler.Template `msgpack:"template"`
	Source       string             `msgpack:"source"`
}

// Record returns the persisted form of r. Closure routes can not be recorded.
func (r *Route) Record() (Record, error) {
	if r.kind == KindClosure {
		return Record{}, serrors.Configuration(
			"Route [%s] uses a closure controller and can not be cached.", r.name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{
		Name:         r.name,
		Methods:      slices.Clone(r.methods),
		Kind:         r.kind,
		Controller:   r.controller,
		Middleware:   slices.Clone(r.middleware),
		Requirements: maps.Clone(r.requirements),
		Defaults:     make(map[string]Value, len(r.defaults)),
		QueryFilter:  r.queryFilter,
		Template:     r.tpl,
		Source:       r.pattern.Source(),
	}
	for k, v := range r.defaults {
		rec.Defaults[k] = encodeValue(v)
	}
	for _, c := range r.conditions {
		cr := ConditionRecord{Name: c.Name, Args: make([]Value, len(c.Args))}
		for i, a := range c.Args {
			cr.Args[i] = encodeValue(a)
		}
		rec.Conditions = append(rec.Conditions, cr)
	}
	return rec, nil
}

// FromRecord rebuilds a route. The pattern is restored from the recorded
// expression; the controller, conditions and query filter are resolved again
// against the given registries.
func FromRecord(rec Record, controllers *Controllers, conditions *Conditions) (*Route, error) {
	if rec.Template == nil {
		return nil, serrors.Configuration("Cached route [%s] has no template.", rec.Name)
	}
	if conditions == nil {
		conditions = NewConditions()
	}

	pattern, err := compiler.Restore(rec.Template, rec.Requirements, rec.Source)
	if err != nil {
		return nil, err
	}

	r := &Route{
		name:         rec.Name,
		tpl:          rec.Template,
		pattern:      pattern,
		methods:      slices.Clone(rec.Methods),
		kind:         rec.Kind,
		controller:   rec.Controller,
		middleware:   slices.Clone(rec.Middleware),
		requirements: maps.Clone(rec.Requirements),
		defaults:     make(map[string]any, len(rec.Defaults)),
		queryFilter:  rec.QueryFilter,
		controllers:  controllers,
		registry:     conditions,
	}
	if r.requirements == nil {
		r.requirements = make(map[string]string)
	}

	switch rec.Kind {
	case KindController:
		if r.action, err = controllers.Resolve(rec.Controller); err != nil {
			return nil, err
		}
	case KindDelegate:
	default:
		return nil, serrors.Configuration("Cached route [%s] has unsupported kind [%s].", rec.Name, rec.Kind)
	}

	if rec.QueryFilter != "" {
		if r.filter, err = controllers.QueryFilter(rec.QueryFilter); err != nil {
			return nil, err
		}
	}

	for k, v := range rec.Defaults {
		if r.defaults[k], err = decodeValue(v); err != nil {
			return nil, fmt.Errorf("default [%s] of route [%s]: %w", k, rec.Name, err)
		}
	}

	for _, cr := range rec.Conditions {
		if !conditions.Has(cr.Name) {
			return nil, serrors.Configuration("Condition [%s] is not registered.", cr.Name)
		}
		bp := ConditionBlueprint{Name: cr.Name, Args: make([]any, len(cr.Args))}
		for i, a := range cr.Args {
			if bp.Args[i], err = decodeValue(a); err != nil {
				return nil, fmt.Errorf("condition [%s] of route [%s]: %w", cr.Name, rec.Name, err)
			}
		}
		r.conditions = append(r.conditions, bp)
	}

	return r, nil
}

func encodeValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Type: "null"}
	case string:
		return Value{Type: "string", Data: t}
	case bool:
		return Value{Type: "bool", Data: cast.ToString(t)}
	case int64:
		return Value{Type: "int", Data: cast.ToString(t)}
	case float64:
		return Value{Type: "float", Data: formatPrimitive(t)}
	default:
		return Value{Type: "string", Data: cast.ToString(t)}
	}
}

func decodeValue(v Value) (any, error) {
	switch v.Type {
	case "null":
		return nil, nil
	case "string":
		return v.Data, nil
	case "bool":
		return cast.ToBoolE(v.Data)
	case "int":
		return cast.ToInt64E(v.Data)
	case "float":
		return cast.ToFloat64E(v.Data)
	default:
		return nil, fmt.Errorf("unknown value type %q", v.Type)
	}
}
