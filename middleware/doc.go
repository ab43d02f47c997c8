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

// Package middleware runs ordered chains of request handlers around a route
// action.
//
// Middleware is registered by key as a [Factory]. Route and global middleware
// lists hold identifiers ("name" or "name:arg1,arg2") that a [Registry]
// resolves through groups and aliases into [Entry] values:
//
//	reg := middleware.NewRegistry()
//	reg.Register("authorize", authorize.Factory(authorizer))
//	reg.SetAliases(map[string]string{"can": "authorize"})
//	reg.SetGroups(map[string][]string{"global": {"request_id"}})
//
//	entries, err := reg.Resolve([]string{"global", "can:edit_posts"})
//	res, err := reg.Pipeline(entries).Then(req, terminal)
//
// Handlers are built lazily: a factory runs at most once per execution and
// only if the chain reaches its entry.
package middleware
