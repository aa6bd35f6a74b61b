// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import (
	"testing"
	"time"
)

// fakeRuntime is a minimal Runtime used by whitebox tests.
type fakeRuntime struct {
	thread ThreadID
	frames []ManagedFrame
	lines  []int32
}

func (r *fakeRuntime) CurrentThread() ThreadID { return r.thread }

func (r *fakeRuntime) WalkManagedStack(frames []ManagedFrame, linenos []int32) int {
	n := copy(frames, r.frames)
	copy(linenos, r.lines[:n])
	return n
}

func (r *fakeRuntime) DescribeManagedFrame(frame ManagedFrame, lineno int32) (name, filename string, startLine int32, hasFilename bool) {
	return "fn", "file.rb", lineno, true
}

func TestSampleCaptureFillsManagedFrames(t *testing.T) {
	rt := &fakeRuntime{
		thread: 7,
		frames: []ManagedFrame{1, 2, 3},
		lines:  []int32{10, 20, 30},
	}
	s := newSample(8, 8)
	epoch := time.Now()

	if !s.capture(rt, epoch) {
		t.Fatalf("capture: got false, want true")
	}
	if s.Thread != 7 {
		t.Fatalf("Thread: got %d, want 7", s.Thread)
	}
	if s.ManagedDepth != 3 {
		t.Fatalf("ManagedDepth: got %d, want 3", s.ManagedDepth)
	}
	for i, want := range []ManagedFrame{1, 2, 3} {
		if s.ManagedFrames[i] != want {
			t.Fatalf("ManagedFrames[%d]: got %d, want %d", i, s.ManagedFrames[i], want)
		}
	}
	if s.TimestampNS < 0 {
		t.Fatalf("TimestampNS: got %d, want >= 0", s.TimestampNS)
	}
}

// TestSampleCaptureTruncatesAtDepthCap checks that a configured depth of
// 1 truncates a deeper managed stack rather than failing the capture.
func TestSampleCaptureTruncatesAtDepthCap(t *testing.T) {
	rt := &fakeRuntime{
		thread: 1,
		frames: []ManagedFrame{1, 2, 3, 4, 5},
		lines:  []int32{1, 2, 3, 4, 5},
	}
	s := newSample(1, 1)
	if !s.capture(rt, time.Now()) {
		t.Fatalf("capture: got false, want true")
	}
	if s.ManagedDepth != 1 {
		t.Fatalf("ManagedDepth: got %d, want 1 (truncated)", s.ManagedDepth)
	}
	if s.ManagedFrames[0] != 1 {
		t.Fatalf("ManagedFrames[0]: got %d, want 1 (innermost frame)", s.ManagedFrames[0])
	}
}

func TestSampleCaptureFailsWithoutInit(t *testing.T) {
	var s Sample
	if s.capture(&fakeRuntime{}, time.Now()) {
		t.Fatalf("capture on zero-value Sample: got true, want false")
	}
}

func TestSampleResetClearsDepthsNotAllocations(t *testing.T) {
	s := newSample(4, 4)
	rt := &fakeRuntime{thread: 1, frames: []ManagedFrame{9}, lines: []int32{9}}
	s.capture(rt, time.Now())
	if s.ManagedDepth == 0 {
		t.Fatalf("precondition: capture should have set ManagedDepth > 0")
	}

	managed := s.ManagedFrames
	s.reset()

	if s.ManagedDepth != 0 || s.NativeDepth != 0 || s.ConsumedTimeNS != 0 || s.TimestampNS != 0 {
		t.Fatalf("reset: fields not cleared: %+v", s)
	}
	if &s.ManagedFrames[0] != &managed[0] {
		t.Fatalf("reset: backing array was reallocated, want reused")
	}
}
