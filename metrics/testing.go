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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestingRecorder creates a [Recorder] on a fresh registry for unit tests.
func TestingRecorder(t testing.TB, opts ...Option) *Recorder {
	t.Helper()

	allOpts := append([]Option{WithRegistry(prometheus.NewRegistry())}, opts...)
	r, err := New(allOpts...)
	if err != nil {
		t.Fatalf("TestingRecorder: failed to create recorder: %v", err)
	}
	return r
}
