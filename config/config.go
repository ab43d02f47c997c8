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

package config

import (
	"context"
	"os"
	"time"
)

// DefaultEnvPrefix is the prefix of the environment variables [Load] reads.
const DefaultEnvPrefix = "SNICCO_"

// Kernel is the complete kernel configuration.
type Kernel struct {
	Middleware   Middleware `mapstructure:"middleware"`
	TestMode     bool       `mapstructure:"test_mode"`
	RequireMatch []string   `mapstructure:"require_match" validate:"dive,oneof=web admin ajax frontend-api api"`
	Redirect     Redirect   `mapstructure:"redirect"`
	Routes       Routes     `mapstructure:"routes"`
	Logging      Logging    `mapstructure:"logging"`
	Metrics      Metrics    `mapstructure:"metrics"`
}

// Middleware configures identifier resolution and the global group policy.
type Middleware struct {
	Groups          map[string][]string `mapstructure:"groups"`
	Aliases         map[string]string   `mapstructure:"aliases"`
	AlwaysRunGlobal bool                `mapstructure:"always_run_global"`
}

// Redirect configures open redirect protection. A site URL requires a secret.
type Redirect struct {
	SiteURL     string        `mapstructure:"site_url" validate:"omitempty,url"`
	Whitelist   []string      `mapstructure:"whitelist" validate:"dive,required"`
	Secret      string        `mapstructure:"secret" validate:"omitempty,min=32"`
	TTL         time.Duration `mapstructure:"ttl" validate:"gt=0"`
	ConfirmPath string        `mapstructure:"confirm_path" validate:"startswith=/"`
}

// Routes configures the route collection.
type Routes struct {
	Cache Cache `mapstructure:"cache"`
}

// Cache selects where the compiled route collection is cached.
type Cache struct {
	Driver    string        `mapstructure:"driver" validate:"oneof=none file redis"`
	Path      string        `mapstructure:"path" validate:"required_if=Driver file"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	Key       string        `mapstructure:"key" validate:"required"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Logging configures the logger.
type Logging struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=json text console"`
}

// Metrics configures the Prometheus recorder.
type Metrics struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}

// Default returns the configuration used when no source sets a value.
func Default() *Kernel {
	return &Kernel{
		Middleware: Middleware{
			Groups:  map[string][]string{},
			Aliases: map[string]string{},
		},
		Redirect: Redirect{
			TTL:         10 * time.Second,
			ConfirmPath: "/redirect/exit",
		},
		Routes: Routes{
			Cache: Cache{Driver: "none", Key: "routes"},
		},
		Logging: Logging{Level: "info", Format: "json"},
		Metrics: Metrics{Namespace: "snicco"},
	}
}

// Option configures [Load].
type Option func(*loader)

type loader struct {
	files     []fileSource
	dotenv    []string
	envPrefix string
	useEnv    bool
	environ   func() []string
}

type fileSource struct {
	path   string
	data   []byte
	format Format
}

// WithFile adds a file layer. The format is detected from the extension
// (.yaml, .yml, .toml, .json). Environment references like ${VAR} in the
// path and in the content are expanded.
func WithFile(path string) Option {
	return func(l *loader) { l.files = append(l.files, fileSource{path: path}) }
}

// WithContent adds an in-memory layer in format.
func WithContent(data []byte, format Format) Option {
	return func(l *loader) { l.files = append(l.files, fileSource{data: data, format: format}) }
}

// WithDotEnv reads variables from a .env file. They count as environment
// variables, but the process environment wins.
func WithDotEnv(path string) Option {
	return func(l *loader) { l.dotenv = append(l.dotenv, path) }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) { l.envPrefix = prefix }
}

// WithoutEnv ignores environment variables and .env files.
func WithoutEnv() Option {
	return func(l *loader) { l.useEnv = false }
}

// WithEnviron replaces [os.Environ] as the source of process variables.
func WithEnviron(environ func() []string) Option {
	return func(l *loader) { l.environ = environ }
}

// Load builds a validated [Kernel] configuration.
func Load(ctx context.Context, opts ...Option) (*Kernel, error) {
	l := &loader{
		envPrefix: DefaultEnvPrefix,
		useEnv:    true,
		environ:   os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l.load(ctx)
}

// MustLoad is like [Load] but panics on error.
func MustLoad(ctx context.Context, opts ...Option) *Kernel {
	cfg, err := Load(ctx, opts...)
	if err != nil {
		panic("config: " + err.Error())
	}
	return cfg
}
