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
	"fmt"
	"os"
	"strings"

	"github.com/szepeviktor/snicco/config"
)

// FromConfig builds a logger from cfg writing to stderr. opts are applied
// after the configured level and format, so they can override the output.
func FromConfig(cfg config.Logging, opts ...Option) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var handler HandlerType
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		handler = JSONHandler
	case "text":
		handler = TextHandler
	case "console":
		handler = ConsoleHandler
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandler, cfg.Format)
	}

	base := []Option{WithOutput(os.Stderr), WithLevel(level), WithHandlerType(handler)}
	return New(append(base, opts...)...)
}
