// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

// timer is the platform-specific handle returned by installTimer. stop
// disarms the timer and unregisters whatever signal/ticker delivery
// mechanism the platform implementation used, blocking until no more
// ticks will be delivered.
type timer interface {
	stop() error
}

// tickFunc is called on every timer tick. Implementations of installTimer
// must call it directly on whatever goroutine receives the platform
// notification — never through a channel consumed elsewhere — so that
// producerTick's "resolve session, check barrier, reserve, capture,
// commit" sequence runs as close to the original signal-context
// semantics as the host platform allows (spec.md §4.C).
type tickFunc = func()
