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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/szepeviktor/snicco/router/route"
)

// ErrCacheMiss is returned by a [CacheStore] when nothing is stored under a
// key.
var ErrCacheMiss = errors.New("route cache miss")

// CacheStore persists encoded route collections.
type CacheStore interface {
	// Load returns the data stored under key, or ErrCacheMiss.
	Load(ctx context.Context, key string) ([]byte, error)
	// Store replaces the data stored under key.
	Store(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// FileCache stores each key as a file in a directory. Writes are atomic.
type FileCache struct {
	dir string
}

// NewFileCache returns a store writing to dir. The directory is created on
// the first write.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

func (f *FileCache) path(key string) (string, error) {
	if key == "" || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid route cache key %q", key)
	}
	return filepath.Join(f.dir, key+".msgpack"), nil
}

// Load implements [CacheStore].
func (f *FileCache) Load(_ context.Context, key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read route cache: %w", err)
	}
	return data, nil
}

// Store implements [CacheStore]. The data is written to a temporary file
// that is renamed over the target.
func (f *FileCache) Store(_ context.Context, key string, data []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create route cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create route cache file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err = tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write route cache: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write route cache: %w", err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replace route cache: %w", err)
	}
	return nil
}

// Delete implements [CacheStore].
func (f *FileCache) Delete(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete route cache: %w", err)
	}
	return nil
}

// RedisCache stores keys in Redis.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a [RedisCache].
type RedisOption func(*RedisCache)

// WithKeyPrefix prefixes every key. The default is "snicco:routes:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// WithTTL expires stored entries. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) { c.ttl = ttl }
}

// NewRedisCache returns a store backed by client.
func NewRedisCache(client redis.UniversalClient, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, prefix: "snicco:routes:"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load implements [CacheStore].
func (c *RedisCache) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get route cache: %w", err)
	}
	return data, nil
}

// Store implements [CacheStore].
func (c *RedisCache) Store(ctx context.Context, key string, data []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set route cache: %w", err)
	}
	return nil
}

// Delete implements [CacheStore].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del route cache: %w", err)
	}
	return nil
}

// Cached loads the collection stored under key. On a miss, or for a cache
// written with another [CacheVersion], it calls build and stores the result.
func Cached(
	ctx context.Context,
	store CacheStore,
	key string,
	controllers *route.Controllers,
	conditions *route.Conditions,
	build func() (*Collection, error),
) (*Collection, error) {
	data, err := store.Load(ctx, key)
	switch {
	case err == nil:
		c, decErr := Decode(data, controllers, conditions)
		if decErr == nil {
			return c, nil
		}
		if !errors.Is(decErr, ErrCacheVersion) {
			return nil, decErr
		}
	case !errors.Is(err, ErrCacheMiss):
		return nil, err
	}

	c, err := build()
	if err != nil {
		return nil, err
	}
	data, err = Encode(c)
	if err != nil {
		return nil, err
	}
	if err = store.Store(ctx, key, data); err != nil {
		return nil, err
	}
	return c, nil
}
