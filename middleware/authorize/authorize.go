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

package authorize

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	serrors "github.com/szepeviktor/snicco/errors"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
)

// Key is the registry key the middleware is usually registered under. "can"
// is the conventional alias.
const Key = "authorize"

// DefaultCapability is checked when the identifier has no arguments.
const DefaultCapability = "manage_options"

// DeniedMessage is the message of the authorization error.
const DeniedMessage = "You do not have permission to perform this action"

// Authorizer answers capability checks for the user behind a request.
type Authorizer interface {
	Can(ctx context.Context, req *message.Request, capability string, args ...any) (bool, error)
}

// AuthorizerFunc adapts a function to [Authorizer].
type AuthorizerFunc func(ctx context.Context, req *message.Request, capability string, args ...any) (bool, error)

// Can calls f.
func (f AuthorizerFunc) Can(ctx context.Context, req *message.Request, capability string, args ...any) (bool, error) {
	return f(ctx, req, capability, args...)
}

// New returns a middleware checking capability. A non-zero objectID and a
// non-empty key are passed on to the authorizer.
func New(authorizer Authorizer, capability string, objectID int64, key string) middleware.Handler {
	var args []any
	if objectID != 0 {
		args = append(args, objectID)
	}
	if key != "" {
		args = append(args, key)
	}

	return middleware.HandlerFunc(func(req *message.Request, next middleware.Next) (*message.Response, error) {
		ok, err := authorizer.Can(req.Context(), req, capability, args...)
		if err != nil {
			return nil, fmt.Errorf("authorize %s: %w", capability, err)
		}
		if !ok {
			return nil, serrors.Authorization(DeniedMessage)
		}
		return next(req)
	})
}

// Factory returns a registry factory parsing "capability,object_id,key".
func Factory(authorizer Authorizer) middleware.Factory {
	return func(args ...string) (middleware.Handler, error) {
		if len(args) > 3 {
			return nil, fmt.Errorf("authorize accepts at most 3 arguments, got %d", len(args))
		}

		capability := DefaultCapability
		if len(args) > 0 && args[0] != "" {
			capability = args[0]
		}

		var objectID int64
		if len(args) > 1 && args[1] != "" {
			id, err := cast.ToInt64E(args[1])
			if err != nil {
				return nil, fmt.Errorf("authorize object id %q: %w", args[1], err)
			}
			objectID = id
		}

		var key string
		if len(args) > 2 {
			key = args[2]
		}
		return New(authorizer, capability, objectID, key), nil
	}
}
