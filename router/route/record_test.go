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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szepeviktor/snicco/message"
)

func TestRecord_RoundTrip(t *testing.T) {
	t.Parallel()

	controllers := testControllers()

	r, err := New("/teams/{team}/{page?}", "RoutingTestController@dynamic",
		WithControllers(controllers), WithName("teams.show"), WithMethods("GET", "POST"))
	require.NoError(t, err)
	require.NoError(t, r.AddRequirements(map[string]string{"team": `[a-z]+`}))
	require.NoError(t, r.AddDefaults(map[string]any{"page": 1, "ratio": 0.25, "flag": false, "none": nil, "lang": "en"}))
	require.NoError(t, r.AddCondition(ConditionQueryString, "tab", 2))
	require.NoError(t, r.AddMiddleware("auth", "can:edit,1"))

	rec, err := r.Record()
	require.NoError(t, err)

	restored, err := FromRecord(rec, controllers, nil)
	require.NoError(t, err)

	assert.Equal(t, r.Name(), restored.Name())
	assert.Equal(t, r.Pattern(), restored.Pattern())
	assert.Equal(t, r.Methods(), restored.Methods())
	assert.Equal(t, r.Kind(), restored.Kind())
	assert.Equal(t, r.Controller(), restored.Controller())
	assert.Equal(t, r.Middleware(), restored.Middleware())
	assert.Equal(t, r.Conditions(), restored.Conditions())
	assert.Equal(t, r.Requirements(), restored.Requirements())
	assert.Equal(t, r.Defaults(), restored.Defaults())
	assert.Equal(t, r.CompiledPattern().Source(), restored.CompiledPattern().Source())
	assert.NotNil(t, restored.Action())

	again, err := restored.Record()
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestRecord_Closure(t *testing.T) {
	t.Parallel()

	r, err := New("/foo", func(*message.Request, Arguments) (any, error) { return "", nil }, WithName("foo"))
	require.NoError(t, err)

	_, err = r.Record()
	require.Error(t, err)
	assert.Equal(t, "Route [foo] uses a closure controller and can not be cached.", err.Error())
}

func TestFromRecord_Errors(t *testing.T) {
	t.Parallel()

	r, err := New("/foo", Delegate, WithControllers(testControllers()))
	require.NoError(t, err)
	require.NoError(t, r.SetQueryFilter("bar_to_baz"))

	rec, err := r.Record()
	require.NoError(t, err)

	_, err = FromRecord(rec, NewControllers(), nil)
	require.Error(t, err, "query filter must be resolvable")

	restored, err := FromRecord(rec, testControllers(), nil)
	require.NoError(t, err)
	assert.Equal(t, KindDelegate, restored.Kind())
	assert.NotNil(t, restored.QueryFilter())

	bad := rec
	bad.Template = nil
	_, err = FromRecord(bad, testControllers(), nil)
	require.Error(t, err)

	bad = rec
	bad.Kind = KindClosure
	_, err = FromRecord(bad, testControllers(), nil)
	require.Error(t, err)

	bad = rec
	bad.Conditions = []ConditionRecord{{Name: "bogus"}}
	_, err = FromRecord(bad, testControllers(), nil)
	require.Error(t, err)

	bad = rec
	bad.Defaults = map[string]Value{"x": {Type: "complex"}}
	_, err = FromRecord(bad, testControllers(), nil)
	require.Error(t, err)
}

func TestValue_Codec(t *testing.T) {
	t.Parallel()

	for _, v := range []any{nil, "x", true, int64(-3), 0.5} {
		got, err := decodeValue(encodeValue(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}
