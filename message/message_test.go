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

package message

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestNewRequest(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("get", "https://site.test/foo/bar?a=1&a=2",
		WithHeader("Referer", "https://site.test"),
		WithClassification(ClassAdmin),
	)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method())
	assert.Equal(t, "/foo/bar", req.Path())
	assert.Equal(t, "1", req.QueryValue("a"))
	assert.Equal(t, []string{"1", "2"}, req.Query()["a"])
	assert.Equal(t, "site.test", req.Host())
	assert.Equal(t, "https://site.test", req.Header("referer"))
	assert.Equal(t, ClassAdmin, req.Classification())
	assert.Equal(t, "https", req.Scheme())
	assert.True(t, req.IsSecure())
}

func TestNewRequest_EmptyPath(t *testing.T) {
	t.Parallel()

	req := MustNewRequest(http.MethodGet, "")
	assert.Equal(t, "/", req.Path())
}

func TestRequest_Immutable(t *testing.T) {
	t.Parallel()

	req := MustNewRequest(http.MethodGet, "/foo?x=1")

	q := req.Query()
	q.Set("x", "2")
	assert.Equal(t, "1", req.QueryValue("x"))

	with := req.WithAttribute("k", "v")
	assert.Nil(t, req.Attribute("k"))
	assert.Equal(t, "v", with.Attribute("k"))

	ctx := context.WithValue(context.Background(), ctxKey{}, 1)
	assert.Equal(t, 1, req.WithContext(ctx).Context().Value(ctxKey{}))
	assert.Nil(t, req.Context().Value(ctxKey{}))

	assert.Equal(t, ClassAjax, req.WithClassification(ClassAjax).Classification())
	assert.Equal(t, ClassWeb, req.Classification())
}

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	hr := httptest.NewRequest(http.MethodPost, "http://site.test/teams?page=2", nil)
	hr.Header.Set("X-Foo", "bar")

	req := FromHTTP(hr, ClassAjax)
	assert.Equal(t, http.MethodPost, req.Method())
	assert.Equal(t, "/teams", req.Path())
	assert.Equal(t, "2", req.QueryValue("page"))
	assert.Equal(t, "bar", req.Header("x-foo"))
	assert.Equal(t, "site.test", req.Host())
	assert.Equal(t, ClassAjax, req.Classification())
	assert.Equal(t, "http", req.Scheme())
}

func TestRequest_RoutingPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		class  Classification
		want   string
	}{
		{"web", "/wp-admin/admin.php?page=foo", ClassWeb, "/wp-admin/admin.php"},
		{"admin page", "/wp-admin/admin.php?page=foo", ClassAdmin, "/wp-admin/admin.php/foo"},
		{"admin without page", "/wp-admin/admin.php", ClassAdmin, "/wp-admin/admin.php"},
		{"other admin file", "/wp-admin/edit.php?page=foo", ClassAdmin, "/wp-admin/edit.php"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := MustNewRequest(http.MethodGet, tt.target, WithClassification(tt.class))
			assert.Equal(t, tt.want, req.RoutingPath())
		})
	}
}

func TestParseClassification(t *testing.T) {
	t.Parallel()

	for _, c := range []Classification{ClassWeb, ClassAdmin, ClassAjax, ClassFrontendAPI} {
		got, ok := ParseClassification(c.String())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := ParseClassification("cli")
	assert.False(t, ok)
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		want     string
	}{
		{"foo", "/foo"},
		{"/foo", "/foo"},
		{"", "/"},
		{"https://site.test/foo", "https://site.test/foo"},
		{"//foo.com/path", "//foo.com/path"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()

			r := Redirect(tt.location, 0)
			assert.Equal(t, http.StatusFound, r.Status())
			assert.Equal(t, tt.want, r.Header().Get("Location"))
			assert.True(t, r.IsRedirect())
			assert.False(t, r.IsAway())
		})
	}
}

func TestAwayAndDelegate(t *testing.T) {
	t.Parallel()

	away := Away("https://stripe.com")
	assert.True(t, away.IsAway())
	assert.True(t, away.IsRedirect())

	d := Delegate()
	assert.True(t, d.IsDelegated())
	assert.False(t, d.IsRedirect())
}

func TestFromResult(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()

		r, err := FromResult("foo")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.Status())
		assert.Equal(t, "foo", string(r.Body()))
		assert.Contains(t, r.Header().Get("content-type"), "text/html")
	})

	t.Run("map", func(t *testing.T) {
		t.Parallel()

		r, err := FromResult(map[string]any{"foo": "bar"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"foo":"bar"}`, string(r.Body()))
		assert.Equal(t, "application/json", r.Header().Get("Content-Type"))
	})

	t.Run("slice", func(t *testing.T) {
		t.Parallel()

		r, err := FromResult([]int{1, 2})
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, string(r.Body()))
	})

	t.Run("response", func(t *testing.T) {
		t.Parallel()

		in := NewResponse(http.StatusCreated, nil)
		r, err := FromResult(in)
		require.NoError(t, err)
		assert.Same(t, in, r)
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()

		for _, v := range []any{1, nil, struct{}{}, (*Response)(nil), 1.5} {
			_, err := FromResult(v)
			var unsupported *ErrUnsupportedResult
			require.ErrorAs(t, err, &unsupported)
		}
	})
}
