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

package event

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szepeviktor/snicco/message"
)

func TestBus_ListenTyped(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	req := message.MustNewRequest(http.MethodGet, "/foo")
	res := message.HTML("foo")

	var order []string
	Listen(bus, func(_ context.Context, e HeadersSent) {
		order = append(order, "headers:"+e.Request.Path())
	})
	Listen(bus, func(_ context.Context, e ResponseSent) {
		order = append(order, "sent:"+string(e.Response.Body()))
	})
	Listen(bus, func(_ context.Context, e ResponseSent) {
		order = append(order, "sent again")
	})

	ctx := context.Background()
	bus.Dispatch(ctx, HeadersSent{Request: req, Response: res})
	bus.Dispatch(ctx, BodySent{Request: req, Response: res})
	bus.Dispatch(ctx, ResponseSent{Request: req, Response: res})

	assert.Equal(t, []string{"headers:/foo", "sent:foo", "sent again"}, order)
}

func TestBus_PanickingListener(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	bus := NewBus(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	called := false
	Listen(bus, func(context.Context, BodySent) { panic("listener broke") })
	Listen(bus, func(context.Context, BodySent) { called = true })

	require.NotPanics(t, func() { bus.Dispatch(context.Background(), BodySent{}) })
	assert.True(t, called)
	assert.Contains(t, buf.String(), "event listener panicked")
	assert.Contains(t, buf.String(), NameBodySent)
}

func TestEventNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NameHeadersSent, HeadersSent{}.EventName())
	assert.Equal(t, NameBodySent, BodySent{}.EventName())
	assert.Equal(t, NameResponseSent, ResponseSent{}.EventName())

	assert.NotPanics(t, func() { Discard.Dispatch(context.Background(), ResponseSent{}) })
}
