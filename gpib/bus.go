// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

// Line identifies one of the sixteen GPIB signals.
//
// The numeric value matches the bit position used by Bus.Snapshot, so
// 1<<Line gives the bit mask for a given line directly.
type Line uint

const (
	DIO1 Line = iota
	DIO2
	DIO3
	DIO4
	DIO5
	DIO6
	DIO7
	DIO8
	DAV
	NRFD
	NDAC
	EOI
	IFC
	ATN
	REN
	SRQ
)

// String returns the conventional GPIB signal name.
func (l Line) String() string {
	switch l {
	case DIO1:
		return "DIO1"
	case DIO2:
		return "DIO2"
	case DIO3:
		return "DIO3"
	case DIO4:
		return "DIO4"
	case DIO5:
		return "DIO5"
	case DIO6:
		return "DIO6"
	case DIO7:
		return "DIO7"
	case DIO8:
		return "DIO8"
	case DAV:
		return "DAV"
	case NRFD:
		return "NRFD"
	case NDAC:
		return "NDAC"
	case EOI:
		return "EOI"
	case IFC:
		return "IFC"
	case ATN:
		return "ATN"
	case REN:
		return "REN"
	case SRQ:
		return "SRQ"
	default:
		return "invalid"
	}
}

// mask returns the Snapshot bit for l.
func (l Line) mask() uint16 {
	return 1 << uint(l)
}

// Bus is the open-collector GPIO capability the core consumes to drive and
// sample the GPIB lines. It is the only way the core touches hardware.
//
// Open-collector semantics are contractual: Assert drives the line LOW
// (active) and switches it to output; Release switches it to input so an
// external (or internal) pull-up floats the line HIGH (inactive). Read
// reports whether the line currently reads as asserted, regardless of
// whether this side or another device on the bus is driving it.
//
// Implementations must not block: every method is called from the single
// cooperative Step loop and must return immediately.
type Bus interface {
	// Assert drives l LOW.
	Assert(l Line)
	// Release tri-states l, letting a pull-up float it HIGH.
	Release(l Line)
	// Read reports whether l currently reads as asserted (LOW).
	Read(l Line) bool
	// Snapshot returns the state of all sixteen lines packed per the Line
	// bit positions: bit 0 is DIO1 asserted, bit 15 is SRQ asserted.
	Snapshot() uint16
	// SetDIO drives the eight DIO lines from the low eight bits of b in a
	// single call: bit 0 asserts DIO1 (etc.), a clear bit releases that
	// line. This exists because the data lines must change together,
	// before the Talker observes them.
	SetDIO(b byte)
}

// snapshotDIO extracts the data byte carried by DIO1..DIO8 in a Snapshot
// value: bit 0 of the byte is DIO1.
func snapshotDIO(snap uint16) byte {
	return byte(snap & 0xFF)
}

// Clock is the monotonic time source the core consumes for the LISTEN
// inactivity timeout and the IFC pulse width. Millis must be wrap-safe:
// callers compare with unsigned subtraction, never with <.
type Clock interface {
	Millis() uint32
}
