// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/jsnano/gpibctl/gpib"
)

// GPIBPinout binds the sixteen GPIB signals to the sixteen D-bus/C-bus
// GPIOs of an FT232H run in MPSSE mode. D0..D7 and C0..C7 are exactly
// sixteen pins, enough for every GPIB line on a single USB-GPIO dongle
// with no header wiring required.
type GPIBPinout struct {
	DIO1, DIO2, DIO3, DIO4, DIO5, DIO6, DIO7, DIO8 gpio.PinIO
	DAV, NRFD, NDAC                                gpio.PinIO
	EOI, IFC, ATN, REN, SRQ                        gpio.PinIO
}

func (p GPIBPinout) byLine() map[gpib.Line]gpio.PinIO {
	return map[gpib.Line]gpio.PinIO{
		gpib.DIO1: p.DIO1, gpib.DIO2: p.DIO2, gpib.DIO3: p.DIO3, gpib.DIO4: p.DIO4,
		gpib.DIO5: p.DIO5, gpib.DIO6: p.DIO6, gpib.DIO7: p.DIO7, gpib.DIO8: p.DIO8,
		gpib.DAV: p.DAV, gpib.NRFD: p.NRFD, gpib.NDAC: p.NDAC,
		gpib.EOI: p.EOI, gpib.IFC: p.IFC, gpib.ATN: p.ATN, gpib.REN: p.REN, gpib.SRQ: p.SRQ,
	}
}

// DefaultGPIBPinout assigns the eight GPIB data lines to D0..D7 and the
// eight management/handshake lines to C0..C7, in signal order. This is an
// arbitrary but fixed convention; an integrator free to choose the wiring
// on their own dongle can use it as-is.
func DefaultGPIBPinout(f *FT232H) GPIBPinout {
	return GPIBPinout{
		DIO1: f.D0, DIO2: f.D1, DIO3: f.D2, DIO4: f.D3,
		DIO5: f.D4, DIO6: f.D5, DIO7: f.D6, DIO8: f.D7,
		DAV: f.C0, NRFD: f.C1, NDAC: f.C2,
		EOI: f.C3, IFC: f.C4, ATN: f.C5, REN: f.C6, SRQ: f.C7,
	}
}

// NewGPIBBus wraps pinout, sixteen GPIOs of a single FT232H, as a gpib.Bus.
// It is a thin composition over gpib.NewPinIOBus: the FT232H's D-bus and
// C-bus pins already implement gpio.PinIO (see mpsse_gpio.go), so there is
// no protocol of our own to add here, only the GPIB-signal-to-pin mapping.
func NewGPIBBus(pinout GPIBPinout) (*gpib.PinIOBus, error) {
	for l, p := range pinout.byLine() {
		if p == nil {
			return nil, fmt.Errorf("ftdi: no pin assigned for GPIB line %s", l)
		}
	}
	return gpib.NewPinIOBus(pinout.byLine()), nil
}
