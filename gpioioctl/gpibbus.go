// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpioioctl

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/jsnano/gpibctl/gpib"
)

// GPIBPinout names the sixteen GPIO character-device lines that carry each
// GPIB signal, by the name the kernel driver reports for that line (as
// returned by GPIOChip.ByName).
type GPIBPinout struct {
	DIO1, DIO2, DIO3, DIO4, DIO5, DIO6, DIO7, DIO8 string
	DAV, NRFD, NDAC                                string
	EOI, IFC, ATN, REN, SRQ                        string
}

func (p GPIBPinout) byLine() map[gpib.Line]string {
	return map[gpib.Line]string{
		gpib.DIO1: p.DIO1, gpib.DIO2: p.DIO2, gpib.DIO3: p.DIO3, gpib.DIO4: p.DIO4,
		gpib.DIO5: p.DIO5, gpib.DIO6: p.DIO6, gpib.DIO7: p.DIO7, gpib.DIO8: p.DIO8,
		gpib.DAV: p.DAV, gpib.NRFD: p.NRFD, gpib.NDAC: p.NDAC,
		gpib.EOI: p.EOI, gpib.IFC: p.IFC, gpib.ATN: p.ATN, gpib.REN: p.REN, gpib.SRQ: p.SRQ,
	}
}

// GPIBBus implements gpib.Bus over sixteen lines of a GPIOChip's character
// device, one gpio_v2 line request per signal.
//
// Every open-collector line idles Released (input, external pull-up) and
// is only ever set to output while Assert holds it low; this mirrors the
// wired-AND behavior real GPIB hardware relies on.
type GPIBBus struct {
	lines [16]*GPIOLine
}

// NewGPIBBus requests the sixteen named lines from chip and wraps them as a
// gpib.Bus. Every named line must already exist on chip (see
// GPIOChip.ByName); the bus starts with every line Released.
func NewGPIBBus(chip *GPIOChip, pinout GPIBPinout) (*GPIBBus, error) {
	b := &GPIBBus{}
	for l, name := range pinout.byLine() {
		line := chip.ByName(name)
		if line == nil {
			return nil, fmt.Errorf("gpioioctl: no such line %q for %s", name, l)
		}
		b.lines[l] = line
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
	_ = b.lines[l].In(gpio.PullUp, gpio.NoEdge)
}

// Read implements gpib.Bus.
func (b *GPIBBus) Read(l gpib.Line) bool {
	line := b.lines[l]
	if line.direction == LineOutput {
		// Only Assert makes a line an output, and it drives it low.
		// GPIOLine.Read would switch the line back to input.
		return true
	}
	return line.Read() == gpio.Low
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
