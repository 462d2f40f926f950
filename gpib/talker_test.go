// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import "testing"

func TestTalkerReadyOnEmptyQueue(t *testing.T) {
	q := newFIFO(4)
	tk := newTalker(q)
	if !tk.ready() {
		t.Fatal("talker with empty queue and idle state should be ready")
	}
}

func TestTalkerSingleByteHandshake(t *testing.T) {
	bus := newFakeBus()
	q := newFIFO(4)
	tk := newTalker(q)
	_ = q.enqueue(0x41, false)

	// Listener starts busy: NRFD and NDAC both asserted.
	pv := peerBus{bus}
	pv.Assert(NRFD)
	pv.Assert(NDAC)

	if !tk.step(bus, bus.Snapshot()) {
		t.Fatal("first step should dequeue and drive DIO")
	}
	if bus.dio != 0x41 {
		t.Errorf("dio = %#x, want 0x41", bus.dio)
	}
	if bus.Read(DAV) {
		t.Error("DAV must not be asserted before NRFD is released")
	}

	// Still busy: no progress.
	if tk.step(bus, bus.Snapshot()) {
		t.Error("step should not progress while NDAC/NRFD unchanged")
	}

	// Listener becomes ready: releases NRFD.
	pv.Release(NRFD)
	if !tk.step(bus, bus.Snapshot()) {
		t.Fatal("step should assert DAV once NRFD is released")
	}
	if !bus.Read(DAV) {
		t.Error("DAV should be asserted once the listener is ready")
	}

	// Listener acknowledges: releases NDAC.
	pv.Release(NDAC)
	if !tk.step(bus, bus.Snapshot()) {
		t.Fatal("step should release DAV once NDAC is released")
	}
	if bus.Read(DAV) {
		t.Error("DAV should be released once the listener has acknowledged")
	}
	if !tk.ready() {
		t.Error("talker should be idle and ready after the handshake completes")
	}
}

func TestTalkerDrainsMultipleBytesInOrder(t *testing.T) {
	bus := newFakeBus()
	q := newFIFO(4)
	tk := newTalker(q)
	_ = q.enqueue(1, false)
	_ = q.enqueue(2, false)

	pv := peerBus{bus}
	// Listener auto-acknowledges every byte as soon as it sees DAV.
	var seen []byte
	for i := 0; i < 200 && !tk.ready(); i++ {
		snap := bus.Snapshot()
		if snap&DAV.mask() != 0 {
			seen = append(seen, bus.dio)
			pv.Release(NDAC)
		} else {
			pv.Assert(NDAC)
		}
		pv.Release(NRFD)
		tk.step(bus, bus.Snapshot())
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}
