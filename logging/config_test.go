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

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szepeviktor/snicco/config"
)

func TestFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.Logging
		contains string
		err      error
	}{
		{name: "json", cfg: config.Logging{Level: "info", Format: "json"}, contains: `"msg":"hello"`},
		{name: "text", cfg: config.Logging{Level: "debug", Format: "text"}, contains: "msg=hello"},
		{name: "console", cfg: config.Logging{Level: "warning", Format: "console"}},
		{name: "bad level", cfg: config.Logging{Level: "loud"}, err: ErrInvalidLevel},
		{name: "bad format", cfg: config.Logging{Format: "xml"}, err: ErrInvalidHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l, err := FromConfig(tt.cfg, WithOutput(&buf))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)

			l.Logger().Info("hello")
			if tt.contains == "" {
				assert.Empty(t, buf.String(), "info is below the configured level")
				return
			}
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}
