// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package allwinner

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"

	"github.com/jsnano/gpibctl/gpib"
)

// portBlockSize is the size, in bytes, of one PIO port's register group
// (PA, PB, ...): four Pn_CFG registers, Pn_DAT, two Pn_DRV registers, and
// two Pn_PUL registers. This matches the sun50i PIO layout used by the H3,
// H5, and H6 families.
const portBlockSize = 0x24

// FastPin names a single GPIO by its PIO port (0 = PA, 1 = PB, ...) and pin
// number within that port.
type FastPin struct {
	Port uint
	Pin  uint
}

func (p FastPin) cfgReg(bank []byte) *uint32 {
	off := uint(p.Port)*portBlockSize + (uint(p.Pin)/8)*4
	return (*uint32)(unsafe.Pointer(&bank[off]))
}

func (p FastPin) cfgShift() uint {
	return (uint(p.Pin) % 8) * 4
}

func (p FastPin) datReg(bank []byte) *uint32 {
	off := uint(p.Port)*portBlockSize + 0x10
	return (*uint32)(unsafe.Pointer(&bank[off]))
}

func (p FastPin) pulReg(bank []byte) *uint32 {
	off := uint(p.Port)*portBlockSize + 0x1C + (uint(p.Pin)/16)*4
	return (*uint32)(unsafe.Pointer(&bank[off]))
}

func (p FastPin) pulShift() uint {
	return (uint(p.Pin) % 16) * 2
}

// GPIBPinout binds the sixteen GPIB signals to specific PIO pins.
type GPIBPinout struct {
	DIO1, DIO2, DIO3, DIO4, DIO5, DIO6, DIO7, DIO8 FastPin
	DAV, NRFD, NDAC                                FastPin
	EOI, IFC, ATN, REN, SRQ                        FastPin
}

func (p GPIBPinout) byLine() map[gpib.Line]FastPin {
	return map[gpib.Line]FastPin{
		gpib.DIO1: p.DIO1, gpib.DIO2: p.DIO2, gpib.DIO3: p.DIO3, gpib.DIO4: p.DIO4,
		gpib.DIO5: p.DIO5, gpib.DIO6: p.DIO6, gpib.DIO7: p.DIO7, gpib.DIO8: p.DIO8,
		gpib.DAV: p.DAV, gpib.NRFD: p.NRFD, gpib.NDAC: p.NDAC,
		gpib.EOI: p.EOI, gpib.IFC: p.IFC, gpib.ATN: p.ATN, gpib.REN: p.REN, gpib.SRQ: p.SRQ,
	}
}

// FastBus implements gpib.Bus by mmap'ing the SoC's PIO register block
// directly out of /dev/mem and twiddling the Pn_CFG/Pn_DAT bits for each
// GPIB line by hand, the register-level equivalent of the original Arduino
// firmware's digitalWriteFast/pinModeFast direct-port macros: no syscall
// per edge, which is what lets this backend keep up with a fast listener's
// handshake response.
//
// FastBus requires root (CAP_SYS_RAWIO) to open /dev/mem.
type FastBus struct {
	mu    sync.Mutex
	mem   []byte // raw mmap, page-aligned
	bank  []byte // mem, sliced to start at the PIO base address
	lines [16]FastPin
}

// NewFastBus mmaps the PIO register block at the address reported by the
// running kernel (see getBaseAddress) and wraps pinout as a gpib.Bus. The
// bus starts with every line Released.
func NewFastBus(pinout GPIBPinout) (*FastBus, error) {
	base, err := getBaseAddress()
	if err != nil {
		return nil, fmt.Errorf("allwinner: could not determine PIO base address: %w", err)
	}
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("allwinner: opening /dev/mem: %w", err)
	}
	defer f.Close()

	pageSize := uint64(os.Getpagesize())
	aligned := base &^ (pageSize - 1)
	pageOff := base - aligned
	// The PIO block for groups PA..PI spans well under one page per group;
	// two pages is ample headroom for the highest port this code addresses.
	span := pageOff + 2*pageSize

	mem, err := syscall.Mmap(int(f.Fd()), int64(aligned), int(span), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("allwinner: mmap PIO registers: %w", err)
	}

	b := &FastBus{
		mem:  mem,
		bank: mem[pageOff:],
	}
	for l, p := range pinout.byLine() {
		b.lines[l] = p
	}
	for l := gpib.Line(0); l < 16; l++ {
		b.Release(l)
	}
	return b, nil
}

// Close unmaps the PIO register block. The bus is unusable afterwards.
func (b *FastBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return syscall.Munmap(b.mem)
}

func (b *FastBus) setFunc(p FastPin, output bool) {
	reg := p.cfgReg(b.bank)
	shift := p.cfgShift()
	v := *reg
	v &^= 0x7 << shift
	if output {
		v |= 0x1 << shift // function 1 is always GPIO-out on every PIO port.
	}
	*reg = v
}

func (b *FastBus) setPullUp(p FastPin, enabled bool) {
	reg := p.pulReg(b.bank)
	shift := p.pulShift()
	v := *reg
	v &^= 0x3 << shift
	if enabled {
		v |= 0x1 << shift
	}
	*reg = v
}

// Assert implements gpib.Bus: drives l LOW by switching it to a GPIO
// output and clearing its data bit.
func (b *FastBus) Assert(l gpib.Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.lines[l]
	reg := p.datReg(b.bank)
	*reg &^= 1 << p.Pin
	b.setFunc(p, true)
}

// Release implements gpib.Bus: switches l to a GPIO input with its
// internal pull-up enabled, letting the bus pull-up (or another device)
// determine its level.
func (b *FastBus) Release(l gpib.Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.lines[l]
	b.setFunc(p, false)
	b.setPullUp(p, true)
}

// Read implements gpib.Bus.
func (b *FastBus) Read(l gpib.Line) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.lines[l]
	reg := p.datReg(b.bank)
	return *reg&(1<<p.Pin) == 0
}

// Snapshot implements gpib.Bus.
func (b *FastBus) Snapshot() uint16 {
	var snap uint16
	for l := gpib.Line(0); l < 16; l++ {
		if b.Read(l) {
			snap |= 1 << uint(l)
		}
	}
	return snap
}

// SetDIO implements gpib.Bus.
func (b *FastBus) SetDIO(v byte) {
	for i := gpib.Line(0); i < 8; i++ {
		if v&(1<<uint(i)) != 0 {
			b.Assert(i)
		} else {
			b.Release(i)
		}
	}
}
