// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

// HasResult reports whether a LISTEN result is latched and unread. It does
// not clear the flag.
func (c *Controller) HasResult() bool {
	return c.resultReady
}

// TakeResult returns the latched LISTEN result and clears it.
func (c *Controller) TakeResult() []byte {
	if !c.resultReady {
		return nil
	}
	out := make([]byte, len(c.result))
	copy(out, c.result)
	c.resultReady = false
	c.result = c.result[:0]
	return out
}
