// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

// drainSample interns one popped Sample's frames and folds it into the
// aggregated-sample table, per spec.md §4.D's four-stage drain step.
// None of the Go steps here can fail the way the original's
// malloc-backed interning can, so every drained sample is folded into
// the table; drainSample never increments droppedSampleCount.
func (s *Session) drainSample(sample *Sample) {
	stack := make([]int, 0, sample.ManagedDepth)
	for j := 0; j < sample.ManagedDepth; j++ {
		name, filename, startLine, hasFilename := s.opts.Runtime.DescribeManagedFrame(sample.ManagedFrames[j], sample.ManagedLines[j])
		fn := Function{
			Kind:      FunctionManaged,
			Name:      name,
			StartLine: startLine,
		}
		if hasFilename {
			fn.Filename = filename
		}
		if startLine == 0 && !hasFilename {
			fn.StartLine = absentLineno
		}
		functionIndex := s.intern.functionIndexFor(fn)
		locationIndex := s.intern.locationIndexFor(functionIndex, sample.ManagedLines[j], 0)
		stack = append(stack, locationIndex)
	}

	nativeStack := make([]int, 0, sample.NativeDepth)
	for j := 0; j < sample.NativeDepth; j++ {
		pc := sample.NativeFrames[j]
		name := ""
		base := uintptr(0)
		if s.opts.Symbolizer != nil {
			if n, b, ok := s.opts.Symbolizer.Symbolize(pc); ok {
				name, base = n, b
			}
		}
		fn := Function{
			Kind:      FunctionNative,
			Name:      name,
			StartLine: absentLineno,
			StartAddr: base,
		}
		functionIndex := s.intern.functionIndexFor(fn)
		locationIndex := s.intern.locationIndexFor(functionIndex, 0, base)
		nativeStack = append(nativeStack, locationIndex)
	}

	candidate := AggregatedSample{
		Thread:        sample.Thread,
		Stack:         stack,
		NativeStack:   nativeStack,
		Count:         1,
		MaxElapsedNS:  sample.TimestampNS,
		MaxConsumedNS: sample.ConsumedTimeNS,
	}
	s.intern.aggregate(candidate)
}
