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

// Package router holds the route collection and the registration API built
// on top of it.
//
// Routes are declared through a [Router] and frozen into a [Collection] by
// [Router.Load]:
//
//	r := router.New(router.WithControllers(controllers))
//	r.Get("/teams/{team}", "TeamController@show", "teams.show").
//		Requirements(map[string]string{"team": `[a-z]+`}).
//		Middleware("auth")
//	routes, err := r.Load()
//
// A collection matches requests in registration order. Routes whose first
// path segment is a literal are indexed by that segment, so a request is only
// checked against routes that can possibly match it.
//
// A collection without closure controllers can be persisted with [Encode] and
// restored with [Decode]. [Cached] wraps both around a [CacheStore].
package router
