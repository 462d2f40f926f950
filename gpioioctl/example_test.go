package gpioioctl_test

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/driver/driverreg"

	"github.com/jsnano/gpibctl"
	"github.com/jsnano/gpibctl/gpib"
	"github.com/jsnano/gpibctl/gpioioctl"
)

// Example wires a GPIB Controller to the first GPIO character device chip
// found on the system, using sixteen consumer lines named after the GPIB
// signals, and runs a single INIT transaction.
func Example() {
	_, _ = host.Init()
	_, _ = driverreg.Init()

	chip := gpioioctl.Chips[0]
	defer chip.Close()

	pinout := gpioioctl.GPIBPinout{
		DIO1: "GPIO2", DIO2: "GPIO3", DIO3: "GPIO4", DIO4: "GPIO5",
		DIO5: "GPIO6", DIO6: "GPIO7", DIO7: "GPIO8", DIO8: "GPIO9",
		DAV: "GPIO10", NRFD: "GPIO11", NDAC: "GPIO12",
		EOI: "GPIO13", IFC: "GPIO14", ATN: "GPIO15", REN: "GPIO16", SRQ: "GPIO17",
	}
	bus, err := gpioioctl.NewGPIBBus(chip, pinout)
	if err != nil {
		log.Fatal(err)
	}

	c := gpib.NewController(0, bus, gpib.NewSystemClock())
	if err := c.Init(22); err != nil {
		log.Fatal(err)
	}
	for !c.Idle() {
		c.Step()
		time.Sleep(time.Millisecond)
	}
	fmt.Println("INIT done")
}
