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

package redirectprotection

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/szepeviktor/snicco/logging"
	"github.com/szepeviktor/snicco/message"
	"github.com/szepeviktor/snicco/middleware"
)

// Names used to wire the middleware and its confirmation route.
const (
	Key                = "redirect_protection"
	RouteName          = "redirect.protection"
	DefaultConfirmPath = "/redirect/exit"
	DefaultTTL         = 10 * time.Second
)

// Query parameters of the confirmation URL.
const (
	ParamExpires   = "expires"
	ParamIntended  = "intended_redirect"
	ParamSignature = "signature"
)

// URLResolver resolves route names to paths. [router.Collection] implements it.
type URLResolver interface {
	URL(name string, args map[string]string) (string, error)
}

// Recorder is notified about rewritten redirects.
type Recorder interface {
	ForbiddenRedirect(ctx context.Context, host string)
}

// Option configures a [Protection].
type Option func(*config)

type config struct {
	whitelist   []string
	routes      URLResolver
	confirmPath string
	ttl         time.Duration
	now         func() time.Time
	logger      *slog.Logger
	recorder    Recorder
}

// WithWhitelist allows redirects to hosts. A pattern is a host or
// "*.domain" matching every subdomain of domain.
func WithWhitelist(patterns ...string) Option {
	return func(c *config) { c.whitelist = append(c.whitelist, patterns...) }
}

// WithRoutes resolves the confirmation path from the route named [RouteName].
func WithRoutes(routes URLResolver) Option {
	return func(c *config) { c.routes = routes }
}

// WithConfirmPath sets the confirmation path used when no route resolves.
func WithConfirmPath(path string) Option {
	return func(c *config) { c.confirmPath = path }
}

// WithTTL sets how long a confirmation token is valid.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithLogger sets the logger for rewritten redirects.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithRecorder counts rewritten redirects.
func WithRecorder(r Recorder) Option {
	return func(c *config) { c.recorder = r }
}

// Protection is the open redirect protection middleware.
type Protection struct {
	siteHost  string
	whitelist []hostPattern
	signer    *Signer
	cfg       *config
}

// hostPattern is a whitelisted host. A wildcard matches subdomains of root.
type hostPattern struct {
	root     string
	wildcard bool
}

func parseHostPattern(p string) hostPattern {
	p = strings.ToLower(strings.TrimSpace(p))
	if root, ok := strings.CutPrefix(p, "*."); ok {
		return hostPattern{root: root, wildcard: true}
	}
	return hostPattern{root: p}
}

func (h hostPattern) matches(host string) bool {
	if h.wildcard {
		return strings.HasSuffix(host, "."+h.root)
	}
	return host == h.root
}

// New returns the middleware for the site at siteURL. Subdomains of the
// site host are whitelisted implicitly.
func New(siteURL string, signer *Signer, opts ...Option) (*Protection, error) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid site url %q", siteURL)
	}
	if signer == nil {
		return nil, fmt.Errorf("redirect protection needs a signer")
	}

	cfg := &config{
		confirmPath: DefaultConfirmPath,
		ttl:         DefaultTTL,
		now:         time.Now,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Protection{
		siteHost: strings.ToLower(u.Hostname()),
		signer:   signer,
		cfg:      cfg,
	}
	for _, w := range cfg.whitelist {
		if hp := parseHostPattern(w); hp.root != "" {
			p.whitelist = append(p.whitelist, hp)
		}
	}
	p.whitelist = append(p.whitelist, hostPattern{root: p.siteHost, wildcard: true})
	return p, nil
}

// Handle implements [middleware.Handler].
func (p *Protection) Handle(req *message.Request, next middleware.Next) (*message.Response, error) {
	res, err := next(req)
	if err != nil || res == nil || !res.IsRedirect() || res.IsAway() {
		return res, err
	}

	location := res.Header().Get("Location")
	intended, ok := p.check(req, location)
	if ok {
		return res, nil
	}
	return p.forbidden(req, location, intended), nil
}

// Factory returns a registry factory returning p.
func (p *Protection) Factory() middleware.Factory { return middleware.Static(p) }

// check reports whether location may be redirected to. For rejected targets
// it also returns the URL handed to the confirmation route.
func (p *Protection) check(req *message.Request, location string) (string, bool) {
	// Browsers drop leading whitespace and control characters and read a
	// backslash as a slash, so "/\evil.com" is protocol relative too.
	normalized := strings.TrimLeftFunc(location, func(r rune) bool { return r <= ' ' })
	normalized = strings.ReplaceAll(normalized, `\`, "/")
	if strings.HasPrefix(normalized, "//") {
		return strings.TrimLeft(normalized, "/"), false
	}

	target, err := url.Parse(normalized)
	if err != nil {
		return normalized, false
	}
	if target.Scheme == "" && target.Host == "" {
		return normalized, true
	}
	host := strings.ToLower(target.Hostname())
	if host == "" {
		return normalized, false
	}
	if host == p.siteHost {
		return normalized, true
	}

	for _, hp := range p.whitelist {
		if hp.matches(host) {
			return normalized, p.refererAllows(req, host, hp)
		}
	}
	return normalized, false
}

func (p *Protection) refererAllows(req *message.Request, host string, hp hostPattern) bool {
	ref, err := url.Parse(req.Header("Referer"))
	if err != nil {
		return false
	}
	refHost := strings.ToLower(ref.Hostname())
	if refHost == "" {
		return false
	}
	return refHost == host || refHost == hp.root || refHost == p.siteHost
}

func (p *Protection) forbidden(req *message.Request, location, intended string) *message.Response {
	ctx := req.Context()
	expires := p.cfg.now().Add(p.cfg.ttl).Unix()

	q := url.Values{}
	q.Set(ParamExpires, strconv.FormatInt(expires, 10))
	q.Set(ParamIntended, intended)
	q.Set(ParamSignature, p.signer.Sign(intended, expires))

	p.cfg.logger.DebugContext(ctx, "forbidden redirect rewritten",
		"location", location,
		"referer", req.Header("Referer"),
	)
	if p.cfg.recorder != nil {
		host := location
		if u, err := url.Parse(intended); err == nil && u.Host != "" {
			host = u.Hostname()
		}
		p.cfg.recorder.ForbiddenRedirect(ctx, host)
	}

	return message.Redirect(p.confirmPath()+"?"+q.Encode(), http.StatusFound)
}

func (p *Protection) confirmPath() string {
	if p.cfg.routes != nil {
		if path, err := p.cfg.routes.URL(RouteName, nil); err == nil {
			return path
		}
	}
	return p.cfg.confirmPath
}
