// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"testing"

	"periph.io/x/d2xx"
	"periph.io/x/d2xx/d2xxtest"
)

func TestDefaultGPIBPinout(t *testing.T) {
	defer reset(t)
	drv.numDevices = func() (int, error) { return 1, nil }
	drv.d2xxOpen = func(i int) (d2xx.Handle, d2xx.Err) {
		return &d2xxtest.Fake{
			DevType: uint32(DevTypeFT232H),
			Vid:     0x0403,
			Pid:     0x6014,
			Data:    [][]byte{{}, {0}},
		}, 0
	}
	if _, err := drv.Init(); err != nil {
		t.Fatal(err)
	}
	all := All()
	if len(all) != 1 {
		t.Fatalf("expected exactly one device, got %d", len(all))
	}
	f, ok := all[0].(*FT232H)
	if !ok {
		t.Fatalf("expected *FT232H, got %T", all[0])
	}

	pinout := DefaultGPIBPinout(f)
	bus, err := NewGPIBBus(pinout)
	if err != nil {
		t.Fatalf("NewGPIBBus: %v", err)
	}
	if bus == nil {
		t.Fatal("NewGPIBBus returned a nil bus with no error")
	}
}

func TestNewGPIBBusRejectsIncompletePinout(t *testing.T) {
	if _, err := NewGPIBBus(GPIBPinout{}); err == nil {
		t.Fatal("expected an error for a zero-value pinout")
	}
}
