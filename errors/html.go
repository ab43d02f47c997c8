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

package errors

import (
	"html/template"
	"net/http"
	"strings"
)

var htmlPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Status}} {{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

// HTML formats errors as a minimal HTML page.
// It produces responses with Content-Type "text/html".
// Only errors whose [Kind] renders publicly show their message.
type HTML struct {
	// StatusResolver determines HTTP status from error.
	// If nil, [StatusOf] is used.
	StatusResolver func(err error) int
}

// Format converts an error into an HTML response. The body is a string.
func (f *HTML) Format(_ *http.Request, err error) Response {
	status := StatusOf(err)
	if f.StatusResolver != nil {
		status = f.StatusResolver(err)
	}

	var b strings.Builder
	//nolint:errcheck // Executing into a strings.Builder cannot fail for this template
	htmlPage.Execute(&b, map[string]any{
		"Status":  status,
		"Title":   http.StatusText(status),
		"Message": publicMessage(err, status),
	})

	return Response{
		Status:      status,
		ContentType: "text/html; charset=utf-8",
		Body:        b.String(),
	}
}
