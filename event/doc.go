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

// Package event carries the response lifecycle notifications the kernel
// emits, and an in-process bus to observe them.
//
//	bus := event.NewBus()
//	event.Listen(bus, func(ctx context.Context, e event.ResponseSent) {
//	    log.Printf("%s %s -> %d", e.Request.Method(), e.Request.Path(), e.Response.Status())
//	})
//	k, err := kernel.New(routes, registry, kernel.WithEvents(bus))
package event
