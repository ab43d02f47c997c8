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

// Package accesslog logs every request that passes through the middleware
// chain.
//
// Each record carries method, path, classification, status, duration and the
// request id set by [requestid] when it runs earlier in the chain. Responses
// slower than the slow threshold are logged at warn level, errors at error
// level.
//
// # Usage
//
//	registry.Register(accesslog.Key, accesslog.Factory(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health"),
//	))
package accesslog
