// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sampler implements the core of an asynchronous sampling profiler
// for a managed-runtime process.
//
// A [Session] is created against a [Runtime] binding, started, and stopped.
// While running, a timer (CPU-time or wall-time, see [TimeMode]) delivers
// ticks that an async-signal-safe producer turns into [Sample] records,
// handed off through a lock-free single-producer/single-consumer ring
// buffer (see ring.go) to a collector goroutine. The collector interns
// functions, locations and stacks and folds identical stacks into
// [AggregatedSample] counts. [Session.Stop] drains the ring, joins the
// collector, and returns a serialized [Profile].
//
// # Quick start
//
//	sess, err := sampler.NewSession(sampler.Options{
//		Runtime:    myRuntimeBinding,
//		IntervalMS: 9,
//		TimeMode:   sampler.TimeModeCPU,
//	})
//	if err != nil {
//		// configuration error
//	}
//	if err := sess.Start(); err != nil {
//		// resource error
//	}
//	runWorkload()
//	profile, err := sess.Stop()
//
// # Scope
//
// The binding to a specific managed runtime, CLI/packaging glue, debug
// logging and configuration-surface parsing, and DWARF/ELF symbolization
// are external collaborators reached through the [Runtime] and
// [Symbolizer] interfaces — this package never implements them directly.
//
// # Concurrency model
//
// Exactly one [Session] may be active (running) at a time per process; the
// signal-context producer resolves the active session through a
// process-wide cell written only during Start/Stop (see activesession.go).
// The ring buffer (ring.go) is the only structure shared lock-free between
// the producer and the collector; everything else the collector owns is
// touched only by the collector goroutine and by Stop's final drain.
//
// # Dependencies
//
// The ring buffer's atomics are built on code.hybscloud.com/atomix for
// explicit memory ordering, and Stop's final drain backs off between its
// last ring-empty checks with code.hybscloud.com/spin, the same primitives
// code.hybscloud.com/lfq uses for its own queues. The collector's
// ring-empty control flow reuses code.hybscloud.com/iox's ErrWouldBlock
// for ecosystem consistency.
// Classified errors use github.com/agilira/go-errors; optional lifecycle
// diagnostics can be routed through a github.com/agilira/lethe
// rotated-file sink.
package sampler
