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

// Package metrics exposes Prometheus counters for the kernel and the
// redirect protection middleware.
//
//	recorder := metrics.MustNew(metrics.WithNamespace("shop"))
//	k, err := kernel.New(routes, registry, kernel.WithMetrics(recorder))
//	protection, err := redirectprotection.New(siteURL, signer,
//	    redirectprotection.WithRecorder(recorder))
//	http.Handle("/metrics", recorder.Handler())
//
// # Metrics
//
//   - <ns>_kernel_runs_total{classification, outcome}
//   - <ns>_kernel_run_duration_seconds{outcome}
//   - <ns>_kernel_errors_total{kind}
//   - <ns>_redirect_forbidden_total
//
// Every recorder owns its own registry unless [WithRegistry] is given, so
// several recorders can coexist in one process.
package metrics
