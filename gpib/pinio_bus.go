// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import "periph.io/x/conn/v3/gpio"

// PinIOBus implements Bus over sixteen generic periph.io gpio.PinIO values,
// one per GPIB signal. It is the adapter board packages (orangepi, nanopi)
// use to turn a header pin-out table into a usable Bus without each having
// to reimplement the open-collector convention.
type PinIOBus struct {
	pins [16]gpio.PinIO
}

// NewPinIOBus wraps pins, keyed by Line, as a Bus. Every entry of pins must
// be non-nil. The bus starts with every line Released.
func NewPinIOBus(pins map[Line]gpio.PinIO) *PinIOBus {
	b := &PinIOBus{}
	for l, p := range pins {
		b.pins[l] = p
	}
	for l := Line(0); l < 16; l++ {
		b.Release(l)
	}
	return b
}

// Assert implements Bus.
func (b *PinIOBus) Assert(l Line) {
	_ = b.pins[l].Out(gpio.Low)
}

// Release implements Bus.
func (b *PinIOBus) Release(l Line) {
	_ = b.pins[l].In(gpio.PullUp, gpio.NoEdge)
}

// Read implements Bus.
func (b *PinIOBus) Read(l Line) bool {
	return b.pins[l].Read() == gpio.Low
}

// Snapshot implements Bus.
func (b *PinIOBus) Snapshot() uint16 {
	var snap uint16
	for l := Line(0); l < 16; l++ {
		if b.Read(l) {
			snap |= 1 << uint(l)
		}
	}
	return snap
}

// SetDIO implements Bus.
func (b *PinIOBus) SetDIO(v byte) {
	for i := Line(0); i < 8; i++ {
		if v&(1<<uint(i)) != 0 {
			b.Assert(i)
		} else {
			b.Release(i)
		}
	}
}
