// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

// ManagedFrame is an opaque handle to a call frame in the observed
// runtime. It is valid only while the runtime says so: once a garbage
// collection marking phase may relocate or free it, a session must have
// either consumed it (interned it into a Function/Location) or reported
// it back to the runtime as reachable (see GCCooperator.VisitBuffered).
//
// The concrete meaning of the bits is owned entirely by the Runtime
// implementation; the session only copies, compares and hands them back.
type ManagedFrame uintptr

// ThreadID identifies the thread that produced a sample. Per this
// package's convention (see SPEC_FULL.md, Open Questions) it is always the
// runtime's own thread identifier, never a kernel tid or pthread handle,
// so that it is stable and meaningful to the same Runtime that produced
// it.
type ThreadID uint64

// Runtime is the managed-runtime binding a Session samples. Implementing
// it is the caller's responsibility; this package never talks to a
// specific language runtime directly.
type Runtime interface {
	// CurrentThread returns the runtime-level identifier of whichever
	// thread is executing when called. Invoked only from the signal
	// producer, so it must be async-signal-safe: no allocation, no
	// locking, no suspension.
	CurrentThread() ThreadID

	// WalkManagedStack fills frames and linenos (parallel arrays of the
	// same length) with the currently executing managed call stack,
	// innermost frame first, and returns the number of frames written
	// (bounded by len(frames)). Must be async-signal-safe.
	WalkManagedStack(frames []ManagedFrame, linenos []int32) int

	// DescribeManagedFrame resolves a frame captured by WalkManagedStack
	// into a display name, a source filename (hasFilename reports whether
	// one is known) and a first line number. Called only from the
	// collector goroutine or from Stop's final drain, never from signal
	// context, so it may allocate.
	DescribeManagedFrame(frame ManagedFrame, lineno int32) (name, filename string, startLine int32, hasFilename bool)
}

// Symbolizer resolves native instruction pointers captured from a
// platform stack unwinder. Implementations are consulted only from the
// collector goroutine or from Stop's final drain.
type Symbolizer interface {
	// Symbolize returns the enclosing symbol's display name and base
	// address for pc. ok is false when nothing could be resolved; the
	// resulting Location then carries an absent name, per spec.md §6.
	Symbolize(pc uintptr) (name string, base uintptr, ok bool)
}

// GCCooperator is implemented by Session and driven by the managed
// runtime's garbage collector. The runtime must call MarkStart before it
// may begin relocating or freeing managed frame handles, call
// VisitBuffered to receive every handle the session still holds
// unconsumed, and call MarkEnd once the phase is over.
type GCCooperator interface {
	// MarkStart sets the GC barrier: subsequent signal producer firings
	// observe it and drop their sample instead of capturing one.
	MarkStart()

	// VisitBuffered calls visit once for every managed-frame handle
	// buffered in samples the collector has not yet consumed, so the
	// garbage collector can treat them as reachable roots. Safe to call
	// only between MarkStart and MarkEnd.
	VisitBuffered(visit func(ManagedFrame))

	// MarkEnd clears the GC barrier.
	MarkEnd()
}
