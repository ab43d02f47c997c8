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

// Package kernel dispatches requests to routes.
//
// For every request the kernel matches the route collection, builds the
// middleware chain, calls the controller, validates what it returned and
// delivers the response:
//
//   - unmatched requests pass through: the host keeps its own handling
//   - admin requests are deferred until [Kernel.SendDeferredResponse]
//   - web, ajax and frontend API requests are sent at once
//   - delegate routes produce no response at all
//
// # Global middleware
//
// The "global" middleware group wraps matched routes. With
// [WithAlwaysRunGlobalMiddleware] it also runs for unmatched requests.
// Middleware never runs twice for one request, even when a route lists a
// global member again. Test mode skips the global group entirely.
//
// # Usage
//
//	registry := middleware.NewRegistry()
//	registry.Register(requestid.Key, requestid.Factory())
//	registry.SetGroups(map[string][]string{kernel.GlobalGroup: {requestid.Key}})
//
//	k, err := kernel.New(routes, registry,
//	    kernel.WithEvents(bus),
//	    kernel.WithLogger(logger),
//	)
//
//	in := kernel.NewIncomingRequest(req, kernel.NewHTTPEmitter(w))
//	result, err := k.Run(ctx, in)
//	if result.Outcome == kernel.OutcomeDeferred {
//	    // render the admin shell, then
//	    err = k.SendDeferredResponse(ctx, in)
//	}
//
// [Handler] adapts a kernel to net/http.
package kernel
