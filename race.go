// Copyright 2026 The sampler Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package sampler

// raceEnabled is true when the race detector is active. Used by
// ring_test.go's concurrent producer/consumer test to cut its iteration
// count, since the race detector's instrumentation overhead makes the
// full run slow (the same purpose code.hybscloud.com/lfq's race.go
// serves for its queue variants).
const raceEnabled = true
