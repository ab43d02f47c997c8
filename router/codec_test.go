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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/router/route"
)

func cacheableRouter(t *testing.T) *Router {
	t.Helper()

	r := New(WithControllers(testControllers()))
	r.Get("/", "RoutingTestController", "home")
	r.Get("/teams/{team}/{page?}", "RoutingTestController@dynamic", "teams").
		Requirements(map[string]string{"team": `[a-z]+`, "page": `\d+`}).
		Defaults(map[string]any{"page": 1, "ratio": 1.5, "draft": false}).
		Condition(route.ConditionQueryString, "tab", "members").
		Middleware("auth", "can:edit,42")
	r.Any("/webhook/", route.Delegate).FilterQuery("bar_to_baz")
	r.Post("/teams", []string{"RoutingTestController", "static"}, "teams.store")
	return r
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	routes, err := cacheableRouter(t).Load()
	require.NoError(t, err)

	data, err := Encode(routes)
	require.NoError(t, err)

	decoded, err := Decode(data, testControllers(), nil)
	require.NoError(t, err)
	require.Equal(t, routes.Len(), decoded.Len())

	want, got := routes.Routes(), decoded.Routes()
	for i := range want {
		assert.Equal(t, want[i].Name(), got[i].Name())
		assert.Equal(t, want[i].Pattern(), got[i].Pattern())
		assert.Equal(t, want[i].Methods(), got[i].Methods())
		assert.Equal(t, want[i].Kind(), got[i].Kind())
		assert.Equal(t, want[i].Controller(), got[i].Controller())
		assert.Equal(t, want[i].Middleware(), got[i].Middleware())
		assert.Equal(t, want[i].Conditions(), got[i].Conditions())
		assert.Equal(t, want[i].Requirements(), got[i].Requirements())
		assert.Equal(t, want[i].Defaults(), got[i].Defaults())
		assert.Equal(t, want[i].QueryFilterName(), got[i].QueryFilterName())
		assert.Equal(t, want[i].CompiledPattern().Source(), got[i].CompiledPattern().Source())
		assert.Equal(t, want[i].MatchesOnlyWithTrailingSlash(), got[i].MatchesOnlyWithTrailingSlash())
		assert.True(t, got[i].Frozen())
	}

	again, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	m, err := decoded.Match(get("/teams/core/2?tab=members"))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "teams", m.Route.Name())
	assert.Equal(t, "2", m.Arguments.StringValue("page"))
}

func TestEncode_RejectsClosures(t *testing.T) {
	t.Parallel()

	r := New()
	r.Get("/closure", func(*message.Request, route.Arguments) (any, error) { return "", nil }, "closure")
	routes, err := r.Load()
	require.NoError(t, err)

	_, err = Encode(routes)
	require.Error(t, err)
	assert.Equal(t, "Route [closure] uses a closure controller and can not be cached.", err.Error())
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	stale, err := msgpack.Marshal(&cacheFile{Version: CacheVersion + 1})
	require.NoError(t, err)
	_, err = Decode(stale, testControllers(), nil)
	require.ErrorIs(t, err, ErrCacheVersion)

	_, err = Decode([]byte("not msgpack"), testControllers(), nil)
	require.Error(t, err)

	routes, err := cacheableRouter(t).Load()
	require.NoError(t, err)
	data, err := Encode(routes)
	require.NoError(t, err)

	_, err = Decode(data, route.NewControllers(), nil)
	require.Error(t, err, "controllers are resolved again")
}
