// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sampler

import "runtime"

// captureNativeBacktrace fills out with raw program counters from the
// current goroutine's native call stack, innermost frame first, skipping
// skip frames that belong to the producer's own call chain. It returns
// the number of frames written.
//
// runtime.Callers is documented safe to call from a signal handler
// (it performs no allocation and does not acquire locks shared with
// application code) and is this package's platform stack unwinder — the
// idiomatic Go analogue of original_source/ext/pf2/sample.c's use of
// libbacktrace's backtrace_simple.
func captureNativeBacktrace(out []uintptr, skip int) int {
	if len(out) == 0 {
		return 0
	}
	n := runtime.Callers(skip+1, out)
	return n
}
