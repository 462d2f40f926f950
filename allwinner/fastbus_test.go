// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	"testing"

	"github.com/jsnano/gpibctl/gpib"
)

func TestFastPinRegisterOffsets(t *testing.T) {
	bank := make([]byte, 4*portBlockSize)

	// PB6 (port 1, pin 6): cfg register is the first Pn_CFG word (6/8 ==
	// 0), data register is at offset 0x10 within the port block.
	pb6 := FastPin{Port: 1, Pin: 6}
	*pb6.datReg(bank) = 0
	*pb6.datReg(bank) |= 1 << 6
	if bank[1*portBlockSize+0x10] != 1<<6 {
		t.Fatalf("datReg wrote to the wrong offset: %x", bank[1*portBlockSize+0x10])
	}

	// A pin number >= 8 rolls into the next Pn_CFG word.
	pa9 := FastPin{Port: 0, Pin: 9}
	if got, want := pa9.cfgShift(), uint((9%8)*4); got != want {
		t.Fatalf("cfgShift = %d, want %d", got, want)
	}
	*pa9.cfgReg(bank) |= 0x1 << pa9.cfgShift()
	if bank[0*portBlockSize+4] == 0 {
		t.Fatal("cfgReg for pin 9 did not touch the second Pn_CFG word")
	}

	// Pn_PUL packs two bits per pin, sixteen pins per register.
	pg17 := FastPin{Port: 6, Pin: 17}
	if got, want := pg17.pulShift(), uint((17%16)*2); got != want {
		t.Fatalf("pulShift = %d, want %d", got, want)
	}
}

func TestGPIBPinoutByLine(t *testing.T) {
	p := GPIBPinout{
		DIO1: FastPin{Port: 0, Pin: 0}, DIO2: FastPin{Port: 0, Pin: 1},
		DIO3: FastPin{Port: 0, Pin: 2}, DIO4: FastPin{Port: 0, Pin: 3},
		DIO5: FastPin{Port: 0, Pin: 4}, DIO6: FastPin{Port: 0, Pin: 5},
		DIO7: FastPin{Port: 0, Pin: 6}, DIO8: FastPin{Port: 0, Pin: 7},
		DAV: FastPin{Port: 1, Pin: 0}, NRFD: FastPin{Port: 1, Pin: 1}, NDAC: FastPin{Port: 1, Pin: 2},
		EOI: FastPin{Port: 1, Pin: 3}, IFC: FastPin{Port: 1, Pin: 4}, ATN: FastPin{Port: 1, Pin: 5},
		REN: FastPin{Port: 1, Pin: 6}, SRQ: FastPin{Port: 1, Pin: 7},
	}
	byLine := p.byLine()
	if len(byLine) != 16 {
		t.Fatalf("expected 16 mapped lines, got %d", len(byLine))
	}
	if byLine[gpib.ATN] != p.ATN {
		t.Fatalf("ATN mapping mismatch: got %+v, want %+v", byLine[gpib.ATN], p.ATN)
	}
	if byLine[gpib.DIO1] != p.DIO1 {
		t.Fatalf("DIO1 mapping mismatch: got %+v, want %+v", byLine[gpib.DIO1], p.DIO1)
	}
}
