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

// Package compiler turns route path templates into matchers and reverse URL
// builders.
//
// # Grammar
//
// A template is a sequence of "/"-separated path segments:
//
//	/teams/{team}/members/{member?}
//
// A segment may mix literal text and placeholders ("/file-{name}.txt"). A
// placeholder written {name} is required, {name?} is optional. An optional
// placeholder must be a whole segment and every segment after it must be
// optional as well. A template ending in "/" only matches paths that end in
// "/".
//
// # Compilation
//
// [Parse] tokenizes a template once. [Compile] combines the tokens with the
// per-segment requirement regexes (default [^/]+) into a [Pattern]:
//
//	tpl, err := compiler.Parse("/users/{id}/{slug?}")
//	p, err := compiler.Compile(tpl, map[string]string{"id": `\d+`})
//
//	params, ok := p.Match("/users/42")   // {"id": "42"}, true
//	url, err := p.Build(params)          // "/users/42"
//
// A compiled pattern is immutable and safe for concurrent use. Its regex
// source can be persisted and handed back to [Restore], which skips the
// tokenizer.
package compiler
