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

import "github.com/szepeviktor/snicco/config"

// FromConfig returns a recorder for cfg, or nil when metrics are disabled.
func FromConfig(cfg config.Metrics, opts ...Option) (*Recorder, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return New(append([]Option{WithNamespace(cfg.Namespace)}, opts...)...)
}
