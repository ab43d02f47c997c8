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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szepeviktor/snicco/config"
)

func TestStoreFromConfig(t *testing.T) {
	t.Parallel()

	store, err := StoreFromConfig(config.Cache{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, store)

	dir := t.TempDir()
	store, err = StoreFromConfig(config.Cache{Driver: "file", Path: dir})
	require.NoError(t, err)
	fc, ok := store.(*FileCache)
	require.True(t, ok)
	assert.Equal(t, dir, fc.dir)

	store, err = StoreFromConfig(config.Cache{Driver: "redis", RedisAddr: "localhost:6379", TTL: time.Minute})
	require.NoError(t, err)
	rc, ok := store.(*RedisCache)
	require.True(t, ok)
	assert.Equal(t, time.Minute, rc.ttl)

	_, err = StoreFromConfig(config.Cache{Driver: "memcached"})
	var cerr *config.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "cache.driver", cerr.Field)
}
