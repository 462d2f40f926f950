// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import "time"

// SystemClock is a Clock backed by the monotonic wall clock, matching the
// Arduino firmware's millis() this core was modeled on.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a SystemClock whose epoch is the call time.
func NewSystemClock() SystemClock {
	return SystemClock{start: time.Now()}
}

// Millis implements Clock. It wraps around uint32 the same way an Arduino's
// millis() does; the core's timeout comparisons are written to tolerate
// that (see controller.go).
func (c SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
