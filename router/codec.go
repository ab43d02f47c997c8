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
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/szepeviktor/snicco/router/route"
)

// CacheVersion is the version of the encoded route cache. Caches written
// with another version are rejected with [ErrCacheVersion].
const CacheVersion = 1

// ErrCacheVersion is returned by [Decode] for a cache of another version.
var ErrCacheVersion = errors.New("route cache version mismatch")

type cacheFile struct {
	Version int            `msgpack:"version"`
	Routes  []route.Record `msgpack:"routes"`
}

// Encode serializes c. Map keys are sorted, so equal collections encode to
// equal bytes. It fails if a route uses a closure controller.
func Encode(c *Collection) ([]byte, error) {
	routes := c.Routes()
	file := cacheFile{Version: CacheVersion, Routes: make([]route.Record, 0, len(routes))}
	for _, r := range routes {
		rec, err := r.Record()
		if err != nil {
			return nil, err
		}
		file.Routes = append(file.Routes, rec)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&file); err != nil {
		return nil, fmt.Errorf("encode route cache: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode restores a collection written by [Encode]. Controllers, conditions
// and query filters are resolved against the given registries; patterns are
// not parsed again.
func Decode(data []byte, controllers *route.Controllers, conditions *route.Conditions) (*Collection, error) {
	var file cacheFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode route cache: %w", err)
	}
	if file.Version != CacheVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCacheVersion, file.Version, CacheVersion)
	}

	c := NewCollection()
	for _, rec := range file.Routes {
		r, err := route.FromRecord(rec, controllers, conditions)
		if err != nil {
			return nil, fmt.Errorf("decode route [%s]: %w", rec.Name, err)
		}
		if err := c.Add(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}
