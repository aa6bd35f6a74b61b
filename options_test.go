// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import "testing"

func TestOptionsNormalizeDefaults(t *testing.T) {
	out, err := Options{Runtime: &fakeRuntime{}}.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.IntervalMS != defaultIntervalMS {
		t.Fatalf("IntervalMS: got %d, want %d", out.IntervalMS, defaultIntervalMS)
	}
	if out.TimeMode != TimeModeCPU {
		t.Fatalf("TimeMode: got %v, want %v", out.TimeMode, TimeModeCPU)
	}
	if out.MaxManagedDepth != defaultMaxManagedDepth {
		t.Fatalf("MaxManagedDepth: got %d, want %d", out.MaxManagedDepth, defaultMaxManagedDepth)
	}
	if out.MaxNativeDepth != defaultMaxNativeDepth {
		t.Fatalf("MaxNativeDepth: got %d, want %d", out.MaxNativeDepth, defaultMaxNativeDepth)
	}
	if out.Logger == nil {
		t.Fatalf("Logger: got nil, want a default discard logger")
	}
}

func TestOptionsNormalizeRequiresRuntime(t *testing.T) {
	if _, err := (Options{}).normalize(); err == nil {
		t.Fatalf("normalize with nil Runtime: got nil error, want ErrCodeConfiguration")
	}
}

func TestOptionsNormalizeRejectsOutOfRangeInterval(t *testing.T) {
	_, err := Options{Runtime: &fakeRuntime{}, IntervalMS: -1}.normalize()
	if err == nil {
		t.Fatalf("normalize with IntervalMS=-1: got nil error, want configuration error")
	}
}

func TestOptionsNormalizeRejectsOutOfRangeDepth(t *testing.T) {
	_, err := Options{Runtime: &fakeRuntime{}, MaxManagedDepth: maxManagedDepthCap + 1}.normalize()
	if err == nil {
		t.Fatalf("normalize with MaxManagedDepth over cap: got nil error, want configuration error")
	}
}

func TestOptionsNormalizeRejectsUnknownTimeMode(t *testing.T) {
	_, err := Options{Runtime: &fakeRuntime{}, TimeMode: TimeMode(99)}.normalize()
	if err == nil {
		t.Fatalf("normalize with invalid TimeMode: got nil error, want configuration error")
	}
}

func TestOptionsNormalizeIsIdempotentOnAlreadyValidInput(t *testing.T) {
	first, err := Options{Runtime: &fakeRuntime{}, IntervalMS: 5, MaxManagedDepth: 16, MaxNativeDepth: 16}.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	second, err := first.normalize()
	if err != nil {
		t.Fatalf("re-normalize: %v", err)
	}
	if second.IntervalMS != first.IntervalMS || second.MaxManagedDepth != first.MaxManagedDepth {
		t.Fatalf("re-normalize changed an already-valid configuration: got %+v, want %+v", second, first)
	}
}
