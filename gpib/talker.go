// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

// talkerState is the state of the low-level byte-send handshake.
type talkerState int

const (
	talkerIdle talkerState = iota
	talkerWaitNDACAsserted
	talkerWaitNRFDReleased
	talkerWaitNDACReleased
)

// talker transmits one byte at a time from a fifo onto the DIO lines,
// performing the DAV/NRFD/NDAC three-wire handshake as the bus Talker.
//
// talker never touches ATN, EOI, IFC, REN, or the management side of the
// handshake: those are the Controller's responsibility. It also never adds
// a timeout of its own: the strict interlock must hold even against an
// arbitrarily slow listener.
type talker struct {
	state       talkerState
	q           *fifo
	inFlight    byte
	inFlightCmd bool
}

func newTalker(q *fifo) *talker {
	return &talker{q: q}
}

// ready reports the Controller's gate for every command/data enqueue and
// for every management-line edge that follows a byte: the Talker is idle
// and has nothing left queued.
func (t *talker) ready() bool {
	return t.state == talkerIdle && t.q.isEmpty()
}

// step runs at most one transition of the Talker FSM, driven by the
// current bus snapshot. It returns true if it made forward progress.
func (t *talker) step(bus Bus, snap uint16) bool {
	switch t.state {
	case talkerIdle:
		if t.q.isEmpty() {
			return false
		}
		b, isCmd := t.q.dequeue()
		t.inFlight = b
		t.inFlightCmd = isCmd
		bus.SetDIO(b)
		t.state = talkerWaitNDACAsserted
		return true
	case talkerWaitNDACAsserted:
		if snap&NDAC.mask() == 0 {
			return false
		}
		t.state = talkerWaitNRFDReleased
		return true
	case talkerWaitNRFDReleased:
		if snap&NRFD.mask() != 0 {
			return false
		}
		bus.Assert(DAV)
		t.state = talkerWaitNDACReleased
		return true
	case talkerWaitNDACReleased:
		if snap&NDAC.mask() != 0 {
			return false
		}
		bus.Release(DAV)
		t.state = talkerIdle
		return true
	default:
		return false
	}
}
