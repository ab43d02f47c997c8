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
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// LogEntry represents a parsed log entry for testing.
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

// NewTestLogger creates a debug level JSON [Logger] writing into a buffer.
// Read the buffer back with [ParseJSONLogEntries].
func NewTestLogger() (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := MustNew(
		WithJSONHandler(),
		WithOutput(buf),
		WithLevel(LevelDebug),
	)
	return logger, buf
}

// ParseJSONLogEntries parses the JSON lines in buf without consuming it.
func ParseJSONLogEntries(buf *bytes.Buffer) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, fmt.Errorf("parse log line: %w", err)
		}

		le := LogEntry{Attrs: make(map[string]any)}
		for k, v := range raw {
			switch k {
			case slog.TimeKey:
				if s, ok := v.(string); ok {
					le.Time, _ = time.Parse(time.RFC3339Nano, s)
				}
			case slog.LevelKey:
				le.Level, _ = v.(string)
			case slog.MessageKey:
				le.Message, _ = v.(string)
			default:
				le.Attrs[k] = v
			}
		}
		entries = append(entries, le)
	}
	return entries, scanner.Err()
}

