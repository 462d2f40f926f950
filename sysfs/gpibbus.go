// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/jsnano/gpibctl/gpib"
)

// GPIBPinout names the sixteen sysfs GPIO numbers that carry each GPIB
// signal.
type GPIBPinout struct {
	DIO1, DIO2, DIO3, DIO4, DIO5, DIO6, DIO7, DIO8 int
	DAV, NRFD, NDAC                                int
	EOI, IFC, ATN, REN, SRQ                        int
}

func (p GPIBPinout) byLine() map[gpib.Line]int {
	return map[gpib.Line]int{
		gpib.DIO1: p.DIO1, gpib.DIO2: p.DIO2, gpib.DIO3: p.DIO3, gpib.DIO4: p.DIO4,
		gpib.DIO5: p.DIO5, gpib.DIO6: p.DIO6, gpib.DIO7: p.DIO7, gpib.DIO8: p.DIO8,
		gpib.DAV: p.DAV, gpib.NRFD: p.NRFD, gpib.NDAC: p.NDAC,
		gpib.EOI: p.EOI, gpib.IFC: p.IFC, gpib.ATN: p.ATN, gpib.REN: p.REN, gpib.SRQ: p.SRQ,
	}
}

// GPIBBus implements gpib.Bus over sixteen GPIO sysfs Pins, one per GPIB
// signal, polled every tick (see Pin.Read; there is no edge-triggered
// interrupt plumbing involved).
type GPIBBus struct {
	lines [16]*Pin
}

// NewGPIBBus wraps the sixteen sysfs GPIO numbers named in pinout as a
// gpib.Bus. Every pin in Pins must already exist (populated by driverGPIO.Init,
// i.e. after host.Init()); the bus starts with every line Released.
func NewGPIBBus(pinout GPIBPinout) (*GPIBBus, error) {
	b := &GPIBBus{}
	for l, number := range pinout.byLine() {
		p, ok := Pins[number]
		if !ok {
			return nil, fmt.Errorf("sysfs: no such GPIO pin %d for %s", number, l)
		}
		b.lines[l] = p
	}
	for l := gpib.Line(0); l < 16; l++ {
		b.Release(l)
	}
	return b, nil
}

// Assert implements gpib.Bus.
func (b *GPIBBus) Assert(l gpib.Line) {
	_ = b.lines[l].Out(gpio.Low)
}

// Release implements gpib.Bus.
func (b *GPIBBus) Release(l gpib.Line) {
	_ = b.lines[l].In(gpio.PullNoChange, gpio.NoEdge)
}

// Read implements gpib.Bus.
func (b *GPIBBus) Read(l gpib.Line) bool {
	return b.lines[l].Read() == gpio.Low
}

// Snapshot implements gpib.Bus.
func (b *GPIBBus) Snapshot() uint16 {
	var snap uint16
	for l := gpib.Line(0); l < 16; l++ {
		if b.Read(l) {
			snap |= 1 << uint(l)
		}
	}
	return snap
}

// SetDIO implements gpib.Bus.
func (b *GPIBBus) SetDIO(v byte) {
	for i := gpib.Line(0); i < 8; i++ {
		if v&(1<<uint(i)) != 0 {
			b.Assert(i)
		} else {
			b.Release(i)
		}
	}
}
