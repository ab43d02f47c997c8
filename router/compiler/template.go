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
	"strings"

	serrors "github.com/szepeviktor/snicco/errors"
)

// PieceKind tells literal text apart from placeholders.
type PieceKind uint8

const (
	// PieceLiteral is literal text.
	PieceLiteral PieceKind = iota
	// PiecePlaceholder is a named placeholder.
	PiecePlaceholder
)

// Piece is a literal or a placeholder inside a path segment.
type Piece struct {
	Kind  PieceKind `msgpack:"k"`
	Value string    `msgpack:"v"`
}

// Part is one "/"-separated path segment.
type Part struct {
	Pieces []Piece `msgpack:"p"`
	// Optional is set for a segment consisting of a single {name?} placeholder.
	Optional bool `msgpack:"o"`
}

// Segment describes a placeholder.
type Segment struct {
	Name     string `msgpack:"n"`
	Required bool   `msgpack:"r"`
}

// Template is a tokenized route template.
type Template struct {
	Raw           string    `msgpack:"raw"`
	Parts         []Part    `msgpack:"parts"`
	Segments      []Segment `msgpack:"segments"`
	TrailingSlash bool      `msgpack:"trailing"`
}

// SegmentNames returns the placeholder names in template order.
func (t *Template) SegmentNames() []string {
	names := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		names[i] = s.Name
	}
	return names
}

// HasSegment reports whether the template declares the placeholder name.
func (t *Template) HasSegment(name string) bool {
	for _, s := range t.Segments {
		if s.Name == name {
			return true
		}
	}
	return false
}

// FirstLiteral returns the first path segment if it is pure literal text, or ""
// when it contains a placeholder or the template is "/".
func (t *Template) FirstLiteral() string {
	if len(t.Parts) == 0 {
		return ""
	}
	first := t.Parts[0]
	if len(first.Pieces) != 1 || first.Pieces[0].Kind != PieceLiteral {
		return ""
	}
	return first.Pieces[0].Value
}

// Parse tokenizes pattern.
func Parse(pattern string) (*Template, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, serrors.Configuration("Expected route pattern to start with /.")
	}

	tpl := &Template{
		Raw:           pattern,
		TrailingSlash: len(pattern) > 1 && strings.HasSuffix(pattern, "/"),
	}

	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return tpl, nil
	}

	seen := make(map[string]int)
	optionalSeen := false

	for _, raw := range strings.Split(trimmed, "/") {
		if raw == "" {
			return nil, serrors.Configuration("Route pattern [%s] contains an empty segment.", pattern)
		}

		part, err := parsePart(pattern, raw)
		if err != nil {
			return nil, err
		}

		if optionalSeen && !part.Optional {
			return nil, serrors.Configuration(
				"Route pattern [%s] has a required segment after an optional one.", pattern)
		}
		optionalSeen = optionalSeen || part.Optional

		for _, p := range part.Pieces {
			if p.Kind != PiecePlaceholder {
				continue
			}
			seen[p.Value]++
			tpl.Segments = append(tpl.Segments, Segment{Name: p.Value, Required: !part.Optional})
		}
		tpl.Parts = append(tpl.Parts, part)
	}

	duplicated := 0
	for _, n := range seen {
		if n > 1 {
			duplicated++
		}
	}
	if duplicated > 0 {
		return nil, serrors.Configuration(
			"Route segment names have to be unique but %d of them is duplicated.", duplicated)
	}

	return tpl, nil
}

func parsePart(pattern, raw string) (Part, error) {
	var part Part
	rest := raw

	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return Part{}, unbalanced(pattern)
			}
			part.Pieces = append(part.Pieces, Piece{Kind: PieceLiteral, Value: rest})
			break
		}
		if open > 0 {
			lit := rest[:open]
			if strings.IndexByte(lit, '}') >= 0 {
				return Part{}, unbalanced(pattern)
			}
			part.Pieces = append(part.Pieces, Piece{Kind: PieceLiteral, Value: lit})
		}

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return Part{}, unbalanced(pattern)
		}
		name := rest[open+1 : open+end]
		rest = rest[open+end+1:]

		optional := strings.HasSuffix(name, "?")
		name = strings.TrimSuffix(name, "?")
		if !validName(name) {
			return Part{}, serrors.Configuration(
				"Route segment name [%s] in pattern [%s] is not valid.", name, pattern)
		}

		if optional {
			if len(part.Pieces) > 0 || rest != "" {
				return Part{}, serrors.Configuration(
					"Optional segment [%s] in pattern [%s] has to be a whole path segment.", name, pattern)
			}
			part.Optional = true
		}
		part.Pieces = append(part.Pieces, Piece{Kind: PiecePlaceholder, Value: name})
	}

	return part, nil
}

func unbalanced(pattern string) error {
	return serrors.Configuration("Route pattern [%s] has unbalanced braces.", pattern)
}

// validName reports whether name is usable as a regexp group name.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// String returns the raw template.
func (t *Template) String() string { return t.Raw }

