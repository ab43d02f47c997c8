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

package router

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/szepeviktor/snicco/config"
)

// StoreFromConfig returns the cache store selected by cfg.Driver. The "none"
// driver returns a nil store.
func StoreFromConfig(cfg config.Cache) (CacheStore, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "file":
		return NewFileCache(cfg.Path), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return NewRedisCache(client, WithTTL(cfg.TTL)), nil
	default:
		return nil, config.NewFieldError("routes", "cache.driver", "map", fmt.Errorf("unknown driver %q", cfg.Driver))
	}
}
