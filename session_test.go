// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import "testing"

func newTestSession(t *testing.T, rt Runtime) *Session {
	t.Helper()
	opts := withTestNoInstallTimer(Options{Runtime: rt, MaxManagedDepth: 8, MaxNativeDepth: 8})
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// TestSessionEmptyProducesEmptyProfile covers spec.md §8's "empty session"
// scenario: Start then Stop with no producer ticks at all.
func TestSessionEmptyProducesEmptyProfile(t *testing.T) {
	s := newTestSession(t, &fakeRuntime{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	profile, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(profile.Samples) != 0 {
		t.Fatalf("Samples: got %d, want 0", len(profile.Samples))
	}
	if profile.CollectedSampleCount != 0 {
		t.Fatalf("CollectedSampleCount: got %d, want 0", profile.CollectedSampleCount)
	}
}

// TestSessionSingleFrameRoundTrips covers spec.md §8's "single frame"
// scenario: one producerTick with a one-deep managed stack.
func TestSessionSingleFrameRoundTrips(t *testing.T) {
	rt := &fakeRuntime{thread: 1, frames: []ManagedFrame{42}, lines: []int32{7}}
	s := newTestSession(t, rt)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	producerTick()
	s.drainAll()

	profile, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(profile.Samples) != 1 {
		t.Fatalf("Samples: got %d, want 1", len(profile.Samples))
	}
	if profile.Samples[0].Count != 1 {
		t.Fatalf("Samples[0].Count: got %d, want 1", profile.Samples[0].Count)
	}
	if len(profile.Samples[0].Stack) != 1 {
		t.Fatalf("Samples[0].Stack length: got %d, want 1", len(profile.Samples[0].Stack))
	}
	// Native frames are captured and interned too (with an absent name,
	// since no Symbolizer is set), so the managed "fn" comes first and
	// every Function after it is native.
	if len(profile.Functions) == 0 || !profile.Functions[0].Managed || profile.Functions[0].Name != "fn" {
		t.Fatalf("Functions: got %+v, want the managed Function named \"fn\" first", profile.Functions)
	}
	for i, fn := range profile.Functions[1:] {
		if fn.Managed {
			t.Fatalf("Functions[%d]: got a second managed Function %+v, want only native ones after \"fn\"", i+1, fn)
		}
	}
}

// TestSessionDedupsRepeatedStack covers spec.md §8's dedup scenario:
// identical (thread, stack) pairs fold into one aggregated sample with an
// incremented count.
func TestSessionDedupsRepeatedStack(t *testing.T) {
	rt := &fakeRuntime{thread: 1, frames: []ManagedFrame{1, 2}, lines: []int32{1, 2}}
	s := newTestSession(t, rt)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 5; i++ {
		producerTick()
	}
	s.drainAll()

	profile, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(profile.Samples) != 1 {
		t.Fatalf("Samples: got %d distinct aggregates, want 1", len(profile.Samples))
	}
	if profile.Samples[0].Count != 5 {
		t.Fatalf("Samples[0].Count: got %d, want 5", profile.Samples[0].Count)
	}
}

// TestSessionSeparatesByThread covers spec.md §8's thread-separation
// scenario: identical stacks on different threads must not fold.
func TestSessionSeparatesByThread(t *testing.T) {
	thread := ThreadID(1)
	rt := &threadSwitchingRuntime{
		threadFn: func() ThreadID { return thread },
		frames:   []ManagedFrame{1},
		lines:    []int32{1},
	}
	s := newTestSession(t, rt)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	producerTick()
	thread = 2
	producerTick()
	s.drainAll()

	profile, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(profile.Samples) != 2 {
		t.Fatalf("Samples: got %d, want 2 (one per thread)", len(profile.Samples))
	}
}

// TestSessionGCMarkingDropsSamples covers spec.md §8's GC-drop scenario:
// a producer tick observed while the GC barrier is set must not capture.
func TestSessionGCMarkingDropsSamples(t *testing.T) {
	rt := &fakeRuntime{thread: 1, frames: []ManagedFrame{1}, lines: []int32{1}}
	s := newTestSession(t, rt)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.MarkStart()
	producerTick()
	s.MarkEnd()
	s.drainAll()

	profile, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(profile.Samples) != 0 {
		t.Fatalf("Samples: got %d, want 0 (producer tick under GC barrier must be dropped)", len(profile.Samples))
	}
	if profile.DroppedSampleCount != 1 {
		t.Fatalf("DroppedSampleCount: got %d, want 1", profile.DroppedSampleCount)
	}
}

// TestSessionRingOverflowCountsDrops covers spec.md §8's ring-overflow
// scenario: more producer ticks than the ring can hold before a drain
// increments the drop counter instead of blocking.
func TestSessionRingOverflowCountsDrops(t *testing.T) {
	rt := &fakeRuntime{thread: 1, frames: []ManagedFrame{1}, lines: []int32{1}}
	s := newTestSession(t, rt)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ticks := s.ring.capacity() + 10
	for i := 0; i < ticks; i++ {
		producerTick()
	}
	s.drainAll()

	profile, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if profile.DroppedSampleCount == 0 {
		t.Fatalf("DroppedSampleCount: got 0, want > 0 (ring should have overflowed)")
	}
	if profile.CollectedSampleCount+profile.DroppedSampleCount != uint64(ticks) {
		t.Fatalf("collected+dropped: got %d, want %d", profile.CollectedSampleCount+profile.DroppedSampleCount, ticks)
	}
}

func TestSessionDoubleStartFails(t *testing.T) {
	s := newTestSession(t, &fakeRuntime{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if err := s.Start(); err == nil {
		t.Fatalf("second Start: got nil error, want state error")
	}
}

func TestSessionStopWithoutStartFails(t *testing.T) {
	s := newTestSession(t, &fakeRuntime{})
	if _, err := s.Stop(); err == nil {
		t.Fatalf("Stop without Start: got nil error, want state error")
	}
}

func TestSessionRejectsSecondConcurrentActive(t *testing.T) {
	s1 := newTestSession(t, &fakeRuntime{})
	s2 := newTestSession(t, &fakeRuntime{})

	if err := s1.Start(); err != nil {
		t.Fatalf("s1.Start: %v", err)
	}
	defer s1.Stop()

	if err := s2.Start(); err == nil {
		t.Fatalf("s2.Start while s1 active: got nil error, want state error")
	}
}

// threadSwitchingRuntime is a fakeRuntime variant whose CurrentThread is
// computed by a closure, letting a test change the reported thread id
// between producerTick calls.
type threadSwitchingRuntime struct {
	threadFn func() ThreadID
	frames   []ManagedFrame
	lines    []int32
}

func (r *threadSwitchingRuntime) CurrentThread() ThreadID { return r.threadFn() }

func (r *threadSwitchingRuntime) WalkManagedStack(frames []ManagedFrame, linenos []int32) int {
	n := copy(frames, r.frames)
	copy(linenos, r.lines[:n])
	return n
}

func (r *threadSwitchingRuntime) DescribeManagedFrame(frame ManagedFrame, lineno int32) (name, filename string, startLine int32, hasFilename bool) {
	return "fn", "file.rb", lineno, true
}
