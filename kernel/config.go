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

package kernel

import (
	"fmt"

	"github.com/szepeviktor/snicco/config"
	"github.com/szepeviktor/snicco/logging"
	"github.com/szepeviktor/snicco/message"
)

// OptionsFromConfig maps cfg to kernel options: the middleware tables, the
// global group policy, test mode, required matches and a logger built from
// cfg.Logging.
func OptionsFromConfig(cfg *config.Kernel, logOpts ...logging.Option) ([]Option, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	classes := make([]message.Classification, 0, len(cfg.RequireMatch))
	for _, name := range cfg.RequireMatch {
		c, ok := message.ParseClassification(name)
		if !ok {
			return nil, config.NewFieldError("kernel", "require_match", "map", fmt.Errorf("unknown classification %q", name))
		}
		classes = append(classes, c)
	}

	logger, err := logging.FromConfig(cfg.Logging, logOpts...)
	if err != nil {
		return nil, err
	}

	return []Option{
		WithMiddlewareGroups(cfg.Middleware.Groups),
		WithMiddlewareAliases(cfg.Middleware.Aliases),
		WithAlwaysRunGlobalMiddleware(cfg.Middleware.AlwaysRunGlobal),
		WithTestMode(cfg.TestMode),
		WithRequireMatch(classes...),
		WithLogger(logger.Logger()),
	}, nil
}
