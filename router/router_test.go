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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/router/route"
)

func TestRouter_Verbs(t *testing.T) {
	t.Parallel()

	r := New(WithControllers(testControllers()))
	tests := []struct {
		reg     *Registration
		methods []string
	}{
		{r.Get("/get", "RoutingTestController"), []string{"GET", "HEAD"}},
		{r.Post("/post", "RoutingTestController"), []string{"POST"}},
		{r.Put("/put", "RoutingTestController"), []string{"PUT"}},
		{r.Patch("/patch", "RoutingTestController"), []string{"PATCH"}},
		{r.Delete("/delete", "RoutingTestController"), []string{"DELETE"}},
		{r.Options("/options", "RoutingTestController"), []string{"OPTIONS"}},
		{r.Any("/any", "RoutingTestController"), route.AllMethods},
		{r.Match([]string{"get", "post"}, "/match", "RoutingTestController"), []string{"GET", "POST"}},
	}
	for _, tt := range tests {
		require.NoError(t, tt.reg.Err())
		assert.Equal(t, tt.methods, tt.reg.Route().Methods(), tt.reg.Route().Pattern())
	}

	routes, err := r.Load()
	require.NoError(t, err)
	assert.Equal(t, len(tests), routes.Len())
}

func TestRouter_RegistrationBuilder(t *testing.T) {
	t.Parallel()

	r := New(WithControllers(testControllers()))
	reg := r.Get("/teams/{team}/{page?}", "RoutingTestController@dynamic").
		Name("teams").
		Requirements(map[string]string{"team": `[a-z]+`}).
		Defaults(map[string]any{"page": 1}).
		Condition(route.ConditionQueryString, "tab", "members").
		Middleware("auth", "can:manage_options").
		FilterQuery("bar_to_baz")
	require.NoError(t, reg.Err())

	routes, err := r.Load()
	require.NoError(t, err)

	rt, ok := routes.FindByName("teams")
	require.True(t, ok)
	assert.Equal(t, []string{"auth", "can:manage_options"}, rt.Middleware())
	assert.Equal(t, "bar_to_baz", rt.QueryFilterName())

	m, err := routes.Match(get("/teams/core?tab=members"))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []route.Param{{Name: "team", Value: "core"}, {Name: "page", Value: int64(1)}}, m.Arguments.Params)
}

func TestRouter_LoadJoinsErrors(t *testing.T) {
	t.Parallel()

	r := New(WithControllers(testControllers()))
	r.Get("foo", "RoutingTestController")
	r.Get("/bar", "MissingController")
	r.Get("/baz", "RoutingTestController", "baz").Middleware("auth", "auth:x")
	r.Get("/ok", "RoutingTestController", "ok")
	r.Get("/ok2", "RoutingTestController", "ok")

	routes, err := r.Load()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Expected route pattern to start with /.")
	assert.Contains(t, msg, "Controller class [MissingController] does not exist.")
	assert.Contains(t, msg, "Middleware [auth] added twice to route [baz].")
	assert.Contains(t, msg, "A route with the name [ok] already exists.")

	assert.Equal(t, 1, routes.Len())
	_, ok := routes.FindByName("ok")
	assert.True(t, ok)
}

func TestRouter_LoadTwice(t *testing.T) {
	t.Parallel()

	r := New(WithControllers(testControllers()))
	r.Get("/a", "RoutingTestController", "a")
	_, err := r.Load()
	require.NoError(t, err)

	r.Get("/b", "RoutingTestController", "b")
	routes, err := r.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, routes.Len())
}

func TestRouter_Group(t *testing.T) {
	t.Parallel()

	r := New(WithControllers(testControllers()))
	admin := r.Group("/admin", "admin", "auth")
	admin.Get("/", "RoutingTestController", "home")
	users := admin.Group("/users", "users", "can:list_users")
	users.Get("/{id}", "RoutingTestController@dynamic", "show")
	users.Post("/{id}", "RoutingTestController@dynamic").Name("update")
	users.Get("/export", "RoutingTestController@static")

	routes, err := r.Load()
	require.NoError(t, err)

	home, ok := routes.FindByName("admin.home")
	require.True(t, ok)
	assert.Equal(t, "/admin", home.Pattern())
	assert.Equal(t, []string{"auth"}, home.Middleware())

	show, ok := routes.FindByName("admin.users.show")
	require.True(t, ok)
	assert.Equal(t, "/admin/users/{id}", show.Pattern())
	assert.Equal(t, []string{"auth", "can:list_users"}, show.Middleware())

	_, ok = routes.FindByName("admin.users.update")
	assert.True(t, ok)

	_, ok = routes.FindByName("/admin/users/export:RoutingTestController@static@GET,HEAD")
	assert.True(t, ok, "generated names are not prefixed")

	u, err := r.URL("admin.users.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/admin/users/7", u)
}

func TestRouter_Admin(t *testing.T) {
	t.Parallel()

	r := New(WithControllers(testControllers()), WithAdminPrefix("backend/"))
	r.Admin("snicco-settings", "RoutingTestController", "settings")

	routes, err := r.Load()
	require.NoError(t, err)

	assert.Equal(t, "/backend/admin.php?page=snicco-settings", r.AdminURL("snicco-settings"))

	m, err := routes.Match(message.MustNewRequest(http.MethodGet, r.AdminURL("snicco-settings"),
		message.WithClassification(message.ClassAdmin)))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "settings", m.Route.Name())
}

func TestRouter_Namespace(t *testing.T) {
	t.Parallel()

	controllers := route.NewControllers()
	controllers.RegisterInvokable("App.Http.HomeController", func(*message.Request, route.Arguments) (any, error) {
		return "home", nil
	})

	r := New(WithControllers(controllers), WithNamespace("App.Http"))
	reg := r.Get("/", "HomeController")
	require.NoError(t, reg.Err())
	assert.Equal(t, route.Controller{Class: "App.Http.HomeController", Method: route.InvokeMethod}, reg.Route().Controller())
}

func TestRouter_GeneratedNamesIncludeMethods(t *testing.T) {
	t.Parallel()

	r := New(WithControllers(testControllers()))
	require.NoError(t, r.Get("/foo", "RoutingTestController@static").Err())
	require.NoError(t, r.Post("/foo", "RoutingTestController@static").Err())

	routes, err := r.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, routes.Len())

	_, ok := routes.FindByName("/foo:RoutingTestController@static@GET,HEAD")
	assert.True(t, ok)
	_, ok = routes.FindByName("/foo:RoutingTestController@static@POST")
	assert.True(t, ok)
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	tests := []struct{ prefix, pattern, want string }{
		{"", "/foo", "/foo"},
		{"/admin", "/", "/admin"},
		{"/admin/", "/foo", "/admin/foo"},
		{"/admin", "/foo/", "/admin/foo/"},
		{"/admin", "foo", "foo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinPath(tt.prefix, tt.pattern), tt)
	}
}
