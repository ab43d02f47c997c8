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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szepeviktor/snicco/message"
)

// counterCondition counts evaluations through an injected counter.
type counterCondition struct {
	calls *int
	want  string
}

func (c counterCondition) IsSatisfied(req *message.Request) bool {
	*c.calls++
	return req.QueryValue("team") == c.want
}

func (c counterCondition) Arguments(req *message.Request) []any {
	return []any{req.QueryValue("team")}
}

func TestConditions_Builtin(t *testing.T) {
	t.Parallel()

	reg := NewConditions()
	assert.Equal(t, []string{ConditionHeader, ConditionQueryString}, reg.Names())

	req := message.MustNewRequest(http.MethodGet, "/?foo=bar&baz=biz", message.WithHeader("X-Mode", "preview"))

	qs, err := reg.New(ConditionQueryString, []any{"foo", "bar", "baz", "biz"})
	require.NoError(t, err)
	assert.True(t, qs.IsSatisfied(req))
	assert.Equal(t, []any{"bar", "biz"}, qs.Arguments(req))

	qs, err = reg.New(ConditionQueryString, []any{"foo", "other"})
	require.NoError(t, err)
	assert.False(t, qs.IsSatisfied(req))

	_, err = reg.New(ConditionQueryString, []any{"foo"})
	require.Error(t, err)

	h, err := reg.New(ConditionHeader, []any{"x-mode", "preview"})
	require.NoError(t, err)
	assert.True(t, h.IsSatisfied(req))
	assert.Equal(t, []any{"preview"}, h.Arguments(req))

	_, err = reg.New("bogus", nil)
	require.Error(t, err)
}

func TestConditions_EvaluatedPerMatch(t *testing.T) {
	t.Parallel()

	calls := 0
	reg := NewConditions()
	reg.Register("team", func(args ...any) (Condition, error) {
		return counterCondition{calls: &calls, want: args[0].(string)}, nil
	})

	r, err := New("/teams", "RoutingTestController", WithControllers(testControllers()), WithConditions(reg))
	require.NoError(t, err)
	require.NoError(t, r.AddCondition("team", "core"))
	assert.Zero(t, calls, "registration builds but does not evaluate")

	m, err := r.Match(message.MustNewRequest(http.MethodGet, "/teams?team=core"))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []any{"core"}, m.Arguments.Conditions)

	m, err = r.Match(message.MustNewRequest(http.MethodGet, "/teams?team=docs"))
	require.NoError(t, err)
	assert.Nil(t, m)

	assert.Equal(t, 2, calls)
}
