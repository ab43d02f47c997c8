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

package message

import (
	"context"
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// Classification tells the kernel which delivery strategy a request needs.
// It is supplied by the host, never computed by the core.
type Classification uint8

const (
	// ClassWeb is a regular frontend page request.
	ClassWeb Classification = iota
	// ClassAdmin is a request rendered inside the host's admin shell.
	ClassAdmin
	// ClassAjax is an asynchronous request answered immediately.
	ClassAjax
	// ClassFrontendAPI is a request against the host's frontend API.
	ClassFrontendAPI
)

// String returns the classification name.
func (c Classification) String() string {
	switch c {
	case ClassWeb:
		return "web"
	case ClassAdmin:
		return "admin"
	case ClassAjax:
		return "ajax"
	case ClassFrontendAPI:
		return "frontend-api"
	default:
		return "unknown"
	}
}

// ParseClassification returns the classification named s.
func ParseClassification(s string) (Classification, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "web":
		return ClassWeb, true
	case "admin":
		return ClassAdmin, true
	case "ajax":
		return ClassAjax, true
	case "frontend-api", "api":
		return ClassFrontendAPI, true
	default:
		return 0, false
	}
}

// Request is an immutable description of an incoming request.
type Request struct {
	ctx    context.Context
	method string
	scheme string
	path   string
	query  url.Values
	header http.Header
	class  Classification
	attrs  map[any]any
}

// RequestOption configures a [Request] built by [NewRequest].
type RequestOption func(*Request)

// WithHeader adds a header value.
func WithHeader(name, value string) RequestOption {
	return func(r *Request) { r.header.Add(name, value) }
}

// WithClassification sets the request classification. The default is [ClassWeb].
func WithClassification(c Classification) RequestOption {
	return func(r *Request) { r.class = c }
}

// WithContext sets the request context.
func WithContext(ctx context.Context) RequestOption {
	return func(r *Request) { r.ctx = ctx }
}

// NewRequest builds a request for method and target. target may carry a query
// string and may be absolute, in which case the host becomes the Host header.
func NewRequest(method, target string, opts ...RequestOption) (*Request, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	r := &Request{
		ctx:    context.Background(),
		method: strings.ToUpper(method),
		scheme: u.Scheme,
		path:   normalizePath(u.Path),
		query:  u.Query(),
		header: make(http.Header),
	}
	if u.Host != "" {
		r.header.Set("Host", u.Host)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNewRequest is like [NewRequest] but panics on a malformed target.
func MustNewRequest(method, target string, opts ...RequestOption) *Request {
	r, err := NewRequest(method, target, opts...)
	if err != nil {
		panic("message: invalid request target: " + err.Error())
	}
	return r
}

// FromHTTP converts an *http.Request.
func FromHTTP(hr *http.Request, class Classification) *Request {
	header := hr.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if hr.Host != "" {
		header.Set("Host", hr.Host)
	}
	scheme := "http"
	if hr.TLS != nil {
		scheme = "https"
	}
	return &Request{
		ctx:    hr.Context(),
		method: hr.Method,
		scheme: scheme,
		path:   normalizePath(hr.URL.Path),
		query:  hr.URL.Query(),
		header: header,
		class:  class,
	}
}

func normalizePath(p string) string {
	if p == "" || p[0] != '/' {
		return "/" + p
	}
	return p
}

// Context returns the request context, never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Method returns the upper-case HTTP method.
func (r *Request) Method() string { return r.method }

// Scheme returns "http" or "https", or "" when the request was built from a
// relative target.
func (r *Request) Scheme() string { return r.scheme }

// IsSecure reports whether the request was made over TLS.
func (r *Request) IsSecure() bool { return r.scheme == "https" }

// Path returns the URL path, always starting with "/".
func (r *Request) Path() string { return r.path }

// AdminPage is the file admin requests are addressed to. Admin pages are
// selected with the "page" query parameter.
const AdminPage = "admin.php"

// RoutingPath returns the path routes are matched against. For admin requests
// to [AdminPage] the page query value is appended as a last segment, so
// "/wp-admin/admin.php?page=foo" routes as "/wp-admin/admin.php/foo".
func (r *Request) RoutingPath() string {
	if r.class != ClassAdmin || !strings.HasSuffix(r.path, "/"+AdminPage) {
		return r.path
	}
	page := r.query.Get("page")
	if page == "" {
		return r.path
	}
	return r.path + "/" + page
}

// Query returns a copy of the query values.
func (r *Request) Query() url.Values { return maps.Clone(r.query) }

// QueryValue returns the first value of the query parameter key.
func (r *Request) QueryValue(key string) string { return r.query.Get(key) }

// Header returns the first value of header name.
func (r *Request) Header(name string) string { return r.header.Get(name) }

// Headers returns a copy of all headers.
func (r *Request) Headers() http.Header { return r.header.Clone() }

// Host returns the Host header.
func (r *Request) Host() string { return r.header.Get("Host") }

// Classification returns the host supplied classification.
func (r *Request) Classification() Classification { return r.class }

// Attribute returns the attribute stored under key.
func (r *Request) Attribute(key any) any { return r.attrs[key] }

// WithAttribute returns a copy of r carrying the attribute.
func (r *Request) WithAttribute(key, value any) *Request {
	c := *r
	c.attrs = make(map[any]any, len(r.attrs)+1)
	maps.Copy(c.attrs, r.attrs)
	c.attrs[key] = value
	return &c
}

// WithContext returns a copy of r with ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	c := *r
	c.ctx = ctx
	return &c
}

// WithClassification returns a copy of r with class.
func (r *Request) WithClassification(class Classification) *Request {
	c := *r
	c.class = class
	return &c
}

// WithQuery returns a copy of r with the query replaced.
func (r *Request) WithQuery(q url.Values) *Request {
	c := *r
	c.query = maps.Clone(q)
	return &c
}
