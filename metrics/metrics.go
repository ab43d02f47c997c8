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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "snicco"

var (
	// ErrInvalidNamespace is returned for an empty namespace.
	ErrInvalidNamespace = errors.New("invalid metrics namespace")
	// ErrRegistration is returned when a collector can not be registered,
	// typically because the registry already holds one with the same name.
	ErrRegistration = errors.New("metrics registration failed")
)

// Recorder records kernel and redirect protection metrics.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry
	buckets   []float64

	runs      *prometheus.CounterVec
	durations *prometheus.HistogramVec
	errs      *prometheus.CounterVec
	forbidden prometheus.Counter
}

// Option configures a [Recorder].
type Option func(*Recorder)

// WithNamespace sets the metric name prefix.
func WithNamespace(ns string) Option {
	return func(r *Recorder) { r.namespace = ns }
}

// WithRegistry registers the collectors on registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) { r.registry = registry }
}

// WithDurationBuckets sets the run duration histogram buckets, in seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) { r.buckets = buckets }
}

// New creates a Recorder and registers its collectors.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		namespace: DefaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.namespace == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidNamespace)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	r.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "kernel",
		Name:      "runs_total",
		Help:      "Kernel runs by request classification and outcome.",
	}, []string{"classification", "outcome"})

	r.durations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "kernel",
		Name:      "run_duration_seconds",
		Help:      "Time spent matching and dispatching a request.",
		Buckets:   r.buckets,
	}, []string{"outcome"})

	r.errs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "kernel",
		Name:      "errors_total",
		Help:      "Errors returned by the kernel by error kind.",
	}, []string{"kind"})

	// Target hosts are attacker controlled and never become labels.
	r.forbidden = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "redirect",
		Name:      "forbidden_total",
		Help:      "Redirects rewritten to the confirmation page.",
	})

	for _, c := range []prometheus.Collector{r.runs, r.durations, r.errs, r.forbidden} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistration, err)
		}
	}
	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic("metrics initialization failed: " + err.Error())
	}
	return r
}

// RecordRun counts one kernel run.
func (r *Recorder) RecordRun(_ context.Context, classification, outcome string, d time.Duration) {
	r.runs.WithLabelValues(classification, outcome).Inc()
	r.durations.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordError counts an error of kind returned by the kernel.
func (r *Recorder) RecordError(_ context.Context, kind string) {
	r.errs.WithLabelValues(kind).Inc()
}

// ForbiddenRedirect counts a rewritten redirect.
func (r *Recorder) ForbiddenRedirect(_ context.Context, _ string) {
	r.forbidden.Inc()
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
