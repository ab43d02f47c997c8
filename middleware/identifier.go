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

package middleware

import "strings"

// Identifier is a parsed middleware identifier of the form "name" or
// "name:arg1,arg2".
type Identifier struct {
	Name string
	Args []string
}

// ParseIdentifier splits id into its name and arguments. Whitespace around the
// name and each argument is dropped.
func ParseIdentifier(id string) Identifier {
	name, rawArgs, found := strings.Cut(id, ":")
	ident := Identifier{Name: strings.TrimSpace(name)}
	if !found || strings.TrimSpace(rawArgs) == "" {
		return ident
	}
	for _, a := range strings.Split(rawArgs, ",") {
		ident.Args = append(ident.Args, strings.TrimSpace(a))
	}
	return ident
}

// String renders the identifier back into its textual form.
func (i Identifier) String() string {
	if len(i.Args) == 0 {
		return i.Name
	}
	return i.Name + ":" + strings.Join(i.Args, ",")
}
