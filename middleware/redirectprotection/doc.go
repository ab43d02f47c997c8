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

// Package redirectprotection defends against open redirects.
//
// The middleware inspects redirect responses. Relative targets and targets on
// the site's own host pass. Targets on a whitelisted host pass only when the
// Referer header points at that host, the whitelist pattern's root domain or
// the site itself. Everything else is replaced by a 302 to a confirmation
// route carrying the intended target and a signed, short-lived token:
//
//	/redirect/exit?expires=1700000010&intended_redirect=https%3A%2F%2Fevil.com&signature=9f2c...
//
// [message.Away] builds redirects that skip the check.
//
// # Usage
//
//	signer, err := redirectprotection.NewSigner(secret)
//	p, err := redirectprotection.New("https://site.test", signer,
//		redirectprotection.WithWhitelist("stripe.com", "*.paypal.com"),
//		redirectprotection.WithRoutes(routes),
//	)
//	redirectprotection.RegisterRoutes(r, p)
//	registry.Register(redirectprotection.Key, middleware.Static(p))
//
// A rejected redirect is not an error. It is logged at debug level.
package redirectprotection
