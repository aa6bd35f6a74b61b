// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import "time"

// Sample is a fixed-layout snapshot captured at a single instant.
//
// Every slice is pre-allocated once, at construction, to the session's
// configured depth caps; capture never grows them and never allocates.
// Fields mirror spec.md §3 (record) and §4.A (capture order and
// consumed-time diagnostic). The original C implementation
// (original_source/ext/pf2/sample.h) calls the equivalent struct
// pf2_sample; this records the same four groups (timestamp, managed
// frames + linenos, native frames, diagnostics) with Go-native types.
type Sample struct {
	// TimestampNS is the monotonic nanosecond timestamp captured at the
	// start of capture, relative to an epoch fixed at session start.
	TimestampNS int64

	// Thread is the runtime thread that produced this sample.
	Thread ThreadID

	// ManagedFrames and ManagedLines are parallel arrays, innermost
	// frame first, valid up to ManagedDepth.
	ManagedFrames []ManagedFrame
	ManagedLines  []int32
	ManagedDepth  int

	// NativeFrames holds raw instruction pointers, innermost first,
	// valid up to NativeDepth. The two topmost frames belonging to the
	// producer itself are skipped by capture, per spec.md §4.A.
	NativeFrames []uintptr
	NativeDepth  int

	// ConsumedTimeNS is a diagnostic: the wall-clock cost of this
	// capture call itself, self-measured (original_source's sample.c
	// leaves this field zeroed outside of its debug build; this
	// implementation always measures it, since the cost is a single
	// extra monotonic read).
	ConsumedTimeNS int64

	// initialized is set once backing storage has been allocated;
	// capture refuses to run otherwise (spec.md §4.A: "Capture fails
	// ... only if the backing storage was not initialized").
	initialized bool
}

// newSample allocates a Sample's backing storage for the given depth
// caps. Allocation happens once, outside of any signal context.
func newSample(maxManagedDepth, maxNativeDepth int) Sample {
	return Sample{
		ManagedFrames: make([]ManagedFrame, maxManagedDepth),
		ManagedLines:  make([]int32, maxManagedDepth),
		NativeFrames:  make([]uintptr, maxNativeDepth),
		initialized:   true,
	}
}

// reset zeroes the depth counters and diagnostics but keeps every
// allocation, so a reused Sample never triggers a fast-path allocation.
func (s *Sample) reset() {
	s.ManagedDepth = 0
	s.NativeDepth = 0
	s.ConsumedTimeNS = 0
	s.TimestampNS = 0
	s.Thread = 0
}

// nativeSkipFrames is the count of topmost native frames that belong to
// the producer's own call chain (captureNativeBacktrace and capture
// itself) and must never be reported as application frames.
const nativeSkipFrames = 2

// capture fills s from rt, bounded by the configured depth caps. epoch is
// the session's start time (see Session.start), so s.TimestampNS ends up
// nanoseconds since that epoch, per spec.md §3. It performs no heap
// allocation: every slice it writes into was sized by newSample. It
// returns false only when s's backing storage was never initialized;
// every other failure mode (rt returning zero frames, a nil Symbolizer)
// simply yields a shallower or sparser sample, never a capture failure,
// per spec.md §4.A.
func (s *Sample) capture(rt Runtime, epoch time.Time) bool {
	if !s.initialized {
		return false
	}

	s.reset()

	captureStart := time.Since(epoch).Nanoseconds()
	s.TimestampNS = captureStart
	s.Thread = rt.CurrentThread()

	s.ManagedDepth = rt.WalkManagedStack(s.ManagedFrames, s.ManagedLines)

	s.NativeDepth = captureNativeBacktrace(s.NativeFrames, nativeSkipFrames)

	s.ConsumedTimeNS = time.Since(epoch).Nanoseconds() - captureStart
	return true
}
