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

// Package authorize provides middleware that checks a capability of the
// current user before the route runs.
//
// The identifier grammar is "can:capability[,object_id[,key]]":
//
//	r.Get("/settings", "SettingsController").Middleware("can:manage_options")
//	r.Get("/posts/{id}/edit", "PostController@edit").Middleware("can:edit_post,42")
//
// Without arguments the capability is "manage_options". A denied check fails
// the request with an [errors.KindAuthorization] error, rendered as 403.
package authorize
