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

// Package config loads the kernel configuration.
//
// # Sources
//
// Layers are applied in this order, later layers overriding earlier ones:
//
//  1. [Default] values
//  2. a YAML, TOML or JSON file ([WithFile], [WithContent])
//  3. a .env file ([WithDotEnv])
//  4. environment variables with a prefix ([WithEnvPrefix], default SNICCO_)
//
// Environment variable names are matched against the configuration keys
// with dots replaced by underscores, so SNICCO_REDIRECT_SITE_URL sets
// redirect.site_url and SNICCO_MIDDLEWARE_GROUPS_GLOBAL sets the "global"
// entry of middleware.groups. List values are comma separated.
//
// # Example
//
//	cfg, err := config.Load(ctx,
//	    config.WithFile("snicco.yaml"),
//	    config.WithDotEnv(".env"),
//	)
//	if err != nil {
//	    var cerr *config.Error
//	    if errors.As(err, &cerr) {
//	        log.Fatalf("%s: %s", cerr.Field, cerr.Err)
//	    }
//	}
//	k, err := kernel.New(routes, registry, kernel.OptionsFromConfig(cfg)...)
//
// A YAML file looks like this:
//
//	middleware:
//	  always_run_global: true
//	  groups:
//	    global: [request_id, security_headers]
//	  aliases:
//	    can: authorize
//	redirect:
//	  site_url: https://example.com
//	  whitelist: ["*.partner.com"]
//	  secret: ${SNICCO_REDIRECT_SECRET}
//	routes:
//	  cache:
//	    driver: file
//	    path: /var/cache/snicco
//
// Values are validated after binding; the result is either a fully valid
// [Kernel] or an error.
package config
