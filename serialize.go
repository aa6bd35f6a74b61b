// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

// Profile is the deduplicated, serializable result of a Session, per
// spec.md §3 ("Profile") and §6 ("serialize()"). Every index referenced
// by a ProfileSample or ProfileLocation is valid within the slice it
// indexes: Stack/NativeStack entries index Locations, and every
// Location's FunctionIndex indexes Functions.
type Profile struct {
	StartTimestampNS     int64
	DurationNS           int64
	CollectedSampleCount uint64
	DroppedSampleCount   uint64

	Samples   []ProfileSample
	Locations []ProfileLocation
	Functions []ProfileFunction
}

// ProfileSample is one aggregated (thread, stack) entry (spec.md §3,
// "AggregatedSample").
type ProfileSample struct {
	Thread ThreadID

	// Stack and NativeStack are ordered sequences of indices into
	// Profile.Locations, innermost frame first.
	Stack       []int
	NativeStack []int

	Count         uint64
	MaxElapsedNS  int64
	MaxConsumedNS int64
}

// ProfileLocation is one call site (spec.md §3, "Location").
type ProfileLocation struct {
	FunctionIndex int
	Lineno        int32
	Address       uintptr
}

// ProfileFunction is one canonical callable description (spec.md §3,
// "Function").
type ProfileFunction struct {
	Managed   bool
	Name      string
	Filename  string
	StartLine int32
	StartAddr uintptr
}

// serialize builds the Profile for this session's final state. It is
// called once, from Stop, after the collector has joined and the final
// drain has run, so the intern tables are quiescent — no other goroutine
// touches them once serialize begins.
func (s *Session) serialize() *Profile {
	p := &Profile{
		StartTimestampNS:     s.startRealtime.UnixNano(),
		DurationNS:           s.durationNS.Load(),
		CollectedSampleCount: s.collectedSampleCount.LoadAcquire(),
		DroppedSampleCount:   s.droppedSampleCount.LoadAcquire(),
	}

	p.Functions = make([]ProfileFunction, s.intern.functions.len())
	for i, fn := range s.intern.functions.items {
		p.Functions[i] = ProfileFunction{
			Managed:   fn.Kind == FunctionManaged,
			Name:      fn.Name,
			Filename:  fn.Filename,
			StartLine: fn.StartLine,
			StartAddr: fn.StartAddr,
		}
	}

	p.Locations = make([]ProfileLocation, s.intern.locations.len())
	for i, loc := range s.intern.locations.items {
		p.Locations[i] = ProfileLocation{
			FunctionIndex: loc.FunctionIndex,
			Lineno:        loc.Lineno,
			Address:       loc.Address,
		}
	}

	p.Samples = make([]ProfileSample, s.intern.aggregated.len())
	for i, agg := range s.intern.aggregated.items {
		p.Samples[i] = ProfileSample{
			Thread:        agg.Thread,
			Stack:         agg.Stack,
			NativeStack:   agg.NativeStack,
			Count:         agg.Count,
			MaxElapsedNS:  agg.MaxElapsedNS,
			MaxConsumedNS: agg.MaxConsumedNS,
		}
	}

	return p
}
