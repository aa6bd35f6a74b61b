// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import "sync/atomic"

// activeSession is the process-wide cell the signal producer reads to
// resolve the currently active session (spec.md §3, "Session"; §9,
// "Process-wide active session"). It replaces the source's global
// pointer (original_source/ext/pf2/session.c's global_current_session)
// with a sealed singleton written only by Start/Stop and read with
// Acquire ordering from the producer, so a session is only ever visible
// to the producer once it is fully initialized (spec.md §5, "the
// pointer is published after the session is fully initialized").
var activeSession atomic.Pointer[Session]

// publishActive installs s as the process-wide active session. It fails
// if one is already active.
func publishActive(s *Session) bool {
	return activeSession.CompareAndSwap(nil, s)
}

// clearActive removes s as the process-wide active session, if it is
// still the one installed.
func clearActive(s *Session) {
	activeSession.CompareAndSwap(s, nil)
}

// currentActive returns the process-wide active session, or nil.
// Called from the signal producer; atomic.Pointer.Load is
// async-signal-safe (it is a single atomic word load with no
// allocation, no lock).
func currentActive() *Session {
	return activeSession.Load()
}
