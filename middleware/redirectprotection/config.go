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

package redirectprotection

import (
	"errors"

	appconfig "github.com/szepeviktor/snicco/config"
)

// ErrNotConfigured is returned by [FromConfig] when no site URL is set.
var ErrNotConfigured = errors.New("redirect protection is not configured")

// FromConfig builds the middleware from cfg. opts are applied after the
// configured whitelist, TTL and confirmation path.
func FromConfig(cfg appconfig.Redirect, opts ...Option) (*Protection, error) {
	if cfg.SiteURL == "" {
		return nil, ErrNotConfigured
	}
	signer, err := NewSigner([]byte(cfg.Secret))
	if err != nil {
		return nil, err
	}

	base := []Option{WithWhitelist(cfg.Whitelist...)}
	if cfg.TTL > 0 {
		base = append(base, WithTTL(cfg.TTL))
	}
	if cfg.ConfirmPath != "" {
		base = append(base, WithConfirmPath(cfg.ConfirmPath))
	}
	return New(cfg.SiteURL, signer, append(base, opts...)...)
}
