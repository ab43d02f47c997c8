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

// Package route defines routes and the registries they are resolved against.
//
// A [Route] binds a set of HTTP methods and a path template to a controller.
// Conditions add request-time predicates, middleware identifiers wrap the
// controller. Controllers and conditions are referenced by string keys and
// resolved through a [Controllers] or [Conditions] registry when the route is
// built, never while a request is dispatched:
//
//	controllers := route.NewControllers()
//	controllers.Register("TeamController", map[string]route.Action{
//	    "show": showTeam,
//	})
//
//	r, err := route.New("/teams/{team}", "TeamController@show",
//	    route.WithControllers(controllers),
//	    route.WithName("teams.show"),
//	)
//	err = r.AddRequirements(map[string]string{"team": `[a-z-]+`})
//	err = r.AddMiddleware("auth", "can:edit_teams")
//
// Configuration may only be appended. Once a route is added to a collection it
// is frozen and every mutator fails.
package route
