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

package compiler

import (
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strings"

	serrors "github.com/szepeviktor/snicco/errors"
)

// DefaultRequirement is the regex used for placeholders without a requirement.
const DefaultRequirement = `[^/]+`

// Pattern is a compiled template: a matcher and a reverse builder.
type Pattern struct {
	tpl          *Template
	requirements map[string]string
	re           *regexp.Regexp
	checks       map[string]*regexp.Regexp
	groups       map[string]int
}

// Compile compiles tpl with the given per-segment requirements.
// Every requirement key must name a placeholder of tpl.
func Compile(tpl *Template, requirements map[string]string) (*Pattern, error) {
	p, err := newPattern(tpl, requirements)
	if err != nil {
		return nil, err
	}

	src := source(tpl, p.requirements)
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, serrors.WrapConfiguration(err, "Route pattern [%s] compiled to an invalid expression", tpl.Raw)
	}
	p.re = re
	p.indexGroups()

	return p, nil
}

// Restore rebuilds a pattern from a previously compiled regex source without
// tokenizing the template again.
func Restore(tpl *Template, requirements map[string]string, src string) (*Pattern, error) {
	p, err := newPattern(tpl, requirements)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, serrors.WrapConfiguration(err, "Cached expression for route pattern [%s] is invalid", tpl.Raw)
	}
	p.re = re
	p.indexGroups()

	return p, nil
}

func newPattern(tpl *Template, requirements map[string]string) (*Pattern, error) {
	p := &Pattern{
		tpl:          tpl,
		requirements: make(map[string]string, len(requirements)),
		checks:       make(map[string]*regexp.Regexp, len(tpl.Segments)),
	}

	for _, name := range slices.Sorted(maps.Keys(requirements)) {
		if !tpl.HasSegment(name) {
			return nil, serrors.Configuration("Route pattern [%s] has no segment [%s].", tpl.Raw, name)
		}
		p.requirements[name] = normalizeRequirement(requirements[name])
	}

	for _, seg := range tpl.Segments {
		expr := p.requirement(seg.Name)
		check, err := regexp.Compile("^(?:" + expr + ")$")
		if err != nil {
			return nil, serrors.WrapConfiguration(err,
				"Requirement for segment [%s] is not a valid regular expression", seg.Name)
		}
		p.checks[seg.Name] = check
	}

	return p, nil
}

func (p *Pattern) indexGroups() {
	p.groups = make(map[string]int, len(p.tpl.Segments))
	for _, seg := range p.tpl.Segments {
		p.groups[seg.Name] = p.re.SubexpIndex(seg.Name)
	}
}

func (p *Pattern) requirement(name string) string {
	if r, ok := p.requirements[name]; ok {
		return r
	}
	return DefaultRequirement
}

// normalizeRequirement strips anchors so a requirement can be embedded.
func normalizeRequirement(r string) string {
	r = strings.TrimPrefix(r, "^")
	if strings.HasSuffix(r, "$") && !strings.HasSuffix(r, `\$`) {
		r = strings.TrimSuffix(r, "$")
	}
	return r
}

// source renders the anchored regex for tpl.
func source(tpl *Template, requirements map[string]string) string {
	if len(tpl.Parts) == 0 {
		return "^/$"
	}

	var b strings.Builder
	depth := 0
	for _, part := range tpl.Parts {
		if part.Optional {
			b.WriteString("(?:/")
			depth++
		} else {
			b.WriteByte('/')
		}
		for _, piece := range part.Pieces {
			if piece.Kind == PieceLiteral {
				b.WriteString(regexp.QuoteMeta(piece.Value))
				continue
			}
			expr, ok := requirements[piece.Value]
			if !ok {
				expr = DefaultRequirement
			}
			b.WriteString("(?P<" + piece.Value + ">" + expr + ")")
		}
	}
	b.WriteString(strings.Repeat(")?", depth))
	if tpl.TrailingSlash {
		b.WriteByte('/')
	}

	body := b.String()
	if tpl.Parts[0].Optional && !tpl.TrailingSlash {
		// "/" must still match when every segment is omitted.
		body = "(?:" + body + "|/)"
	}
	return "^" + body + "$"
}

// Template returns the template the pattern was compiled from.
func (p *Pattern) Template() *Template { return p.tpl }

// Source returns the compiled regex source.
func (p *Pattern) Source() string { return p.re.String() }

// Requirements returns a copy of the normalized requirements.
func (p *Pattern) Requirements() map[string]string { return maps.Clone(p.requirements) }

// Match matches a decoded request path. It returns the captured values of the
// placeholders that took part in the match. Omitted optional segments are
// absent from the map.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	m := p.re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, false
	}

	values := make(map[string]string, len(p.groups))
	for name, idx := range p.groups {
		if idx < 0 || m[2*idx] < 0 {
			continue
		}
		values[name] = path[m[2*idx]:m[2*idx+1]]
	}
	return values, true
}

// Build substitutes values into the template. Building stops at the first
// optional segment without a value. Values are path escaped.
func (p *Pattern) Build(values map[string]string) (string, error) {
	var b strings.Builder

	for _, part := range p.tpl.Parts {
		if part.Optional {
			name := part.Pieces[0].Value
			if v, ok := values[name]; !ok || v == "" {
				break
			}
		}

		b.WriteByte('/')
		for _, piece := range part.Pieces {
			if piece.Kind == PieceLiteral {
				b.WriteString(piece.Value)
				continue
			}

			v, ok := values[piece.Value]
			if !ok {
				return "", serrors.Configuration(
					"Required segment [%s] is missing for route pattern [%s].", piece.Value, p.tpl.Raw)
			}
			if !p.checks[piece.Value].MatchString(v) {
				return "", serrors.Configuration(
					"Parameter [%s] for route pattern [%s] has to match [%s]. Got [%s].",
					piece.Value, p.tpl.Raw, p.requirement(piece.Value), v)
			}
			b.WriteString(url.PathEscape(v))
		}
	}

	if b.Len() == 0 {
		return "/", nil
	}
	if p.tpl.TrailingSlash {
		b.WriteByte('/')
	}
	return b.String(), nil
}
