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

package accesslog

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szepeviktor/snicco/logging"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
	"github.com/szepeviktor/snicco/middleware/requestid"
)

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Unix(1700000000, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func ok(*message.Request) (*message.Response, error) {
	return message.HTML("ok"), nil
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		step     time.Duration
		terminal middleware.Next
		level    string
		message  string
		status   float64
	}{
		{name: "ok", path: "/foo", step: time.Millisecond, terminal: ok, level: "INFO", message: "request", status: 200},
		{name: "slow", path: "/foo", step: time.Second, terminal: ok, level: "WARN", message: "slow request", status: 200},
		{
			name: "error", path: "/foo", step: time.Millisecond,
			terminal: func(*message.Request) (*message.Response, error) { return nil, errors.New("boom") },
			level:    "ERROR", message: "request failed",
		},
		{
			name: "delegated", path: "/foo", step: time.Millisecond,
			terminal: func(*message.Request) (*message.Response, error) { return message.Delegate(), nil },
			level:    "DEBUG", message: "request delegated",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := logging.NewTestLogger()
			h := New(
				WithLogger(logger.Logger()),
				WithSlowThreshold(500*time.Millisecond),
				WithClock(steppingClock(tt.step)),
			)
			_, _ = h.Handle(message.MustNewRequest(http.MethodGet, tt.path), tt.terminal)

			entries, err := logging.ParseJSONLogEntries(buf)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, tt.message, entries[0].Message)
			assert.Equal(t, "GET", entries[0].Attrs["method"])
			assert.Equal(t, tt.path, entries[0].Attrs["path"])
			assert.Equal(t, "web", entries[0].Attrs["classification"])
			if tt.status != 0 {
				assert.InDelta(t, tt.status, entries[0].Attrs["status"], 0)
			}
		})
	}
}

func TestAccessLog_ExcludePaths(t *testing.T) {
	t.Parallel()

	logger, buf := logging.NewTestLogger()
	h := New(WithLogger(logger.Logger()), WithExcludePaths("/health"))

	res, err := h.Handle(message.MustNewRequest(http.MethodGet, "/health"), ok)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(res.Body()))
	assert.Empty(t, buf.String())
}

func TestAccessLog_RequestID(t *testing.T) {
	t.Parallel()

	logger, buf := logging.NewTestLogger()
	registry := middleware.NewRegistry()
	registry.Register(requestid.Key, requestid.Factory(requestid.WithGenerator(func() string { return "req-1" })))
	registry.Register(Key, Factory(WithLogger(logger.Logger())))

	entries, err := registry.Resolve([]string{requestid.Key, Key})
	require.NoError(t, err)
	_, err = registry.Pipeline(entries).Then(message.MustNewRequest(http.MethodGet, "/foo"), ok)
	require.NoError(t, err)

	logs, err := logging.ParseJSONLogEntries(buf)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-1", logs[0].Attrs["request_id"])
}
