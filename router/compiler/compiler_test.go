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
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/szepeviktor/snicco/errors"
)

func mustCompile(t *testing.T, pattern string, req map[string]string) *Pattern {
	t.Helper()

	tpl, err := Parse(pattern)
	require.NoError(t, err)
	p, err := Compile(tpl, req)
	require.NoError(t, err)
	return p
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		message string
	}{
		{"missing leading slash", "foo", "Expected route pattern to start with /."},
		{"duplicate required", "/foo/{bar}/{bar}", "Route segment names have to be unique but 1 of them is duplicated."},
		{"duplicate optional", "/foo/{bar}/{bar?}", "Route segment names have to be unique but 1 of them is duplicated."},
		{"two duplicates", "/{a}/{b}/{a}/{b}", "Route segment names have to be unique but 2 of them is duplicated."},
		{"unbalanced", "/foo/{bar", "Route pattern [/foo/{bar] has unbalanced braces."},
		{"stray closing brace", "/foo/bar}", "Route pattern [/foo/bar}] has unbalanced braces."},
		{"invalid name", "/foo/{1bar}", "Route segment name [1bar] in pattern [/foo/{1bar}] is not valid."},
		{"empty name", "/foo/{}", "Route segment name [] in pattern [/foo/{}] is not valid."},
		{"optional inside segment", "/foo-{bar?}", "Optional segment [bar] in pattern [/foo-{bar?}] has to be a whole path segment."},
		{"required after optional", "/{a?}/{b}", "Route pattern [/{a?}/{b}] has a required segment after an optional one."},
		{"empty segment", "/foo//bar", "Route pattern [/foo//bar] contains an empty segment."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.pattern)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.True(t, serrors.IsKind(err, serrors.KindConfiguration))
		})
	}
}

func TestParse_Template(t *testing.T) {
	t.Parallel()

	tpl, err := Parse("/teams/{team}/file-{name}.txt/{page?}")
	require.NoError(t, err)

	assert.Equal(t, []string{"team", "name", "page"}, tpl.SegmentNames())
	assert.Equal(t, []Segment{{"team", true}, {"name", true}, {"page", false}}, tpl.Segments)
	assert.Equal(t, "teams", tpl.FirstLiteral())
	assert.True(t, tpl.HasSegment("page"))
	assert.False(t, tpl.HasSegment("bogus"))
	require.Len(t, tpl.Parts, 4)
	assert.Equal(t, []Piece{
		{PieceLiteral, "file-"},
		{PiecePlaceholder, "name"},
		{PieceLiteral, ".txt"},
	}, tpl.Parts[2].Pieces)

	root, err := Parse("/")
	require.NoError(t, err)
	assert.Empty(t, root.Parts)
	assert.Empty(t, root.FirstLiteral())

	dyn, err := Parse("/{a}/b")
	require.NoError(t, err)
	assert.Empty(t, dyn.FirstLiteral())
}

func TestParse_TrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    bool
	}{
		{"/", false},
		{"/foo", false},
		{"/foo/", true},
		{"/foo/{bar}", false},
		{"/foo/{bar}/", true},
		{"/foo/{bar?}", false},
		{"/foo/{bar?}/", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			tpl, err := Parse(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tpl.TrailingSlash)
		})
	}
}

func TestPattern_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		req     map[string]string
		path    string
		want    map[string]string
		ok      bool
	}{
		{"root", "/", nil, "/", map[string]string{}, true},
		{"static", "/foo", nil, "/foo", map[string]string{}, true},
		{"static mismatch", "/foo", nil, "/bar", nil, false},
		{"no trailing slash allowed", "/foo", nil, "/foo/", nil, false},
		{"trailing slash required", "/foo/", nil, "/foo", nil, false},
		{"trailing slash matches", "/foo/", nil, "/foo/", map[string]string{}, true},
		{"required", "/foo/{bar}", nil, "/foo/baz", map[string]string{"bar": "baz"}, true},
		{"required missing", "/foo/{bar}", nil, "/foo", nil, false},
		{"optional omitted", "/foo/{bar?}", nil, "/foo", map[string]string{}, true},
		{"optional present", "/foo/{bar?}", nil, "/foo/baz", map[string]string{"bar": "baz"}, true},
		{"optional trailing omitted", "/foo/{bar?}/", nil, "/foo/", map[string]string{}, true},
		{"optional trailing present", "/foo/{bar?}/", nil, "/foo/baz/", map[string]string{"bar": "baz"}, true},
		{"optional trailing without slash", "/foo/{bar?}/", nil, "/foo/baz", nil, false},
		{"leading optional root", "/{page?}", nil, "/", map[string]string{}, true},
		{"leading optional", "/{page?}", nil, "/2", map[string]string{"page": "2"}, true},
		{"nested optionals", "/a/{b?}/{c?}", nil, "/a/1/2", map[string]string{"b": "1", "c": "2"}, true},
		{"requirement passes", "/users/{id}", map[string]string{"id": `\d+`}, "/users/42", map[string]string{"id": "42"}, true},
		{"requirement fails", "/users/{id}", map[string]string{"id": `\d+`}, "/users/abc", nil, false},
		{"anchored requirement", "/users/{id}", map[string]string{"id": `^\d+$`}, "/users/7", map[string]string{"id": "7"}, true},
		{"requirement may span slashes", "/docs/{path}", map[string]string{"path": `.+`}, "/docs/a/b", map[string]string{"path": "a/b"}, true},
		{"mixed segment", "/file-{name}.txt", nil, "/file-report.txt", map[string]string{"name": "report"}, true},
		{"literal is quoted", "/a.b", nil, "/axb", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := mustCompile(t, tt.pattern, tt.req)
			got, ok := p.Match(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPattern_Build(t *testing.T) {
	t.Parallel()

	p := mustCompile(t, "/teams/{team}/{member?}/", map[string]string{"team": `[a-z]+`})

	got, err := p.Build(map[string]string{"team": "core"})
	require.NoError(t, err)
	assert.Equal(t, "/teams/core/", got)

	got, err = p.Build(map[string]string{"team": "core", "member": "jane doe"})
	require.NoError(t, err)
	assert.Equal(t, "/teams/core/jane%20doe/", got)

	_, err = p.Build(map[string]string{})
	require.Error(t, err)
	assert.Equal(t, "Required segment [team] is missing for route pattern [/teams/{team}/{member?}/].", err.Error())

	_, err = p.Build(map[string]string{"team": "42"})
	require.Error(t, err)
	assert.Equal(t, "Parameter [team] for route pattern [/teams/{team}/{member?}/] has to match [[a-z]+]. Got [42].", err.Error())

	root := mustCompile(t, "/{page?}", nil)
	got, err = root.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "/", got)
}

func TestPattern_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		req     map[string]string
		values  map[string]string
	}{
		{"/", nil, map[string]string{}},
		{"/foo/{bar}", nil, map[string]string{"bar": "baz"}},
		{"/foo/{bar}/", nil, map[string]string{"bar": "baz"}},
		{"/foo/{bar?}", nil, map[string]string{}},
		{"/foo/{bar?}", nil, map[string]string{"bar": "baz"}},
		{"/users/{id}/{slug?}", map[string]string{"id": `\d+`}, map[string]string{"id": "12", "slug": "hello-world"}},
		{"/file-{name}.{ext}", map[string]string{"ext": "txt|pdf"}, map[string]string{"name": "report", "ext": "pdf"}},
		{"/search/{q}", nil, map[string]string{"q": "a b+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			p := mustCompile(t, tt.pattern, tt.req)
			built, err := p.Build(tt.values)
			require.NoError(t, err)

			decoded, err := url.PathUnescape(built)
			require.NoError(t, err)

			got, ok := p.Match(decoded)
			require.True(t, ok, "built path %q does not match", built)
			assert.Equal(t, tt.values, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tpl, err := Parse("/foo/{bar}")
	require.NoError(t, err)

	_, err = Compile(tpl, map[string]string{"baz": `\d+`})
	require.Error(t, err)
	assert.Equal(t, "Route pattern [/foo/{bar}] has no segment [baz].", err.Error())

	_, err = Compile(tpl, map[string]string{"bar": `(`})
	require.Error(t, err)
	assert.True(t, serrors.IsKind(err, serrors.KindConfiguration))
}

func TestRestore(t *testing.T) {
	t.Parallel()

	p := mustCompile(t, "/users/{id}/{slug?}", map[string]string{"id": `\d+`})

	restored, err := Restore(p.Template(), p.Requirements(), p.Source())
	require.NoError(t, err)

	assert.Equal(t, p.Source(), restored.Source())
	got, ok := restored.Match("/users/7/x")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "7", "slug": "x"}, got)

	_, err = Restore(p.Template(), nil, "(")
	require.Error(t, err)
}
