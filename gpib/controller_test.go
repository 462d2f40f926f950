// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import "testing"

const controllerTestAddress = 0

// runWithAcceptor steps c and peer together until c returns to Idle, up to
// maxSteps iterations, advancing c's fakeClock by 1 ms per step. It fails
// the test if c never settles.
func runWithAcceptor(t *testing.T, c *Controller, peer *fakeAcceptor, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		c.Step()
		if fc, ok := c.clock.(*fakeClock); ok {
			fc.advance(1)
		}
		peer.step()
		if c.Idle() {
			return
		}
	}
	t.Fatalf("controller did not reach Idle within %d steps (state=%d)", maxSteps, c.state)
}

func runWithTalkerPeer(t *testing.T, c *Controller, peer *fakeTalkerPeer, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		c.Step()
		if fc, ok := c.clock.(*fakeClock); ok {
			fc.advance(1)
		}
		peer.step()
		if c.Idle() {
			return
		}
	}
	t.Fatalf("controller did not reach Idle within %d steps (state=%d)", maxSteps, c.state)
}

func TestControllerInit(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	peer := newFakeAcceptor(bus)

	if err := c.Init(22); err != nil {
		t.Fatalf("Init() = %v, want nil", err)
	}
	runWithAcceptor(t, c, peer, 2000)

	if addr, ok := c.TargetAddress(); !ok || addr != 22 {
		t.Errorf("TargetAddress() = (%d, %v), want (22, true)", addr, ok)
	}
	if c.LastError() != nil {
		t.Errorf("LastError() = %v, want nil", c.LastError())
	}
	wantCmds := []byte{cmdUNL, cmdUNT}
	if len(peer.cmds) != len(wantCmds) {
		t.Fatalf("peer received %d command bytes, want %d: %v", len(peer.cmds), len(wantCmds), peer.cmds)
	}
	for i, want := range wantCmds {
		if peer.cmds[i] != want || !peer.isCmd[i] {
			t.Errorf("cmd[%d] = %#x (isCmd=%v), want %#x (isCmd=true)", i, peer.cmds[i], peer.isCmd[i], want)
		}
	}
}

func TestControllerWriteAfterInit(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	peer := newFakeAcceptor(bus)

	if err := c.Init(22); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)

	peer.cmds = nil
	peer.isCmd = nil
	if err := c.Write([]byte("X")); err != nil {
		t.Fatalf("Write() = %v, want nil", err)
	}
	runWithAcceptor(t, c, peer, 2000)

	if c.LastError() != nil {
		t.Errorf("LastError() = %v, want nil", c.LastError())
	}
	wantCmds := []byte{cmdUNL, cmdUNT, cmdMTA(controllerTestAddress), cmdMLA(22)}
	if len(peer.cmds) != len(wantCmds)+1 {
		t.Fatalf("peer received %d bytes, want %d: %v", len(peer.cmds), len(wantCmds)+1, peer.cmds)
	}
	for i, want := range wantCmds {
		if peer.cmds[i] != want || !peer.isCmd[i] {
			t.Errorf("cmd[%d] = %#x (isCmd=%v), want %#x (isCmd=true)", i, peer.cmds[i], peer.isCmd[i], want)
		}
	}
	last := len(peer.cmds) - 1
	if peer.cmds[last] != 'X' || peer.isCmd[last] {
		t.Errorf("final byte = %#x (isCmd=%v), want 'X' (isCmd=false)", peer.cmds[last], peer.isCmd[last])
	}
}

func TestControllerWriteCacheHitSkipsReaddressing(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	peer := newFakeAcceptor(bus)

	if err := c.Init(22); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)
	if err := c.Write([]byte("X")); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)

	peer.cmds = nil
	peer.isCmd = nil
	if err := c.Write([]byte("Y")); err != nil {
		t.Fatalf("Write() = %v, want nil", err)
	}
	runWithAcceptor(t, c, peer, 2000)

	if len(peer.cmds) != 1 {
		t.Fatalf("peer received %d bytes, want 1 (addressing should be skipped): %v", len(peer.cmds), peer.cmds)
	}
	if peer.cmds[0] != 'Y' || peer.isCmd[0] {
		t.Errorf("byte = %#x (isCmd=%v), want 'Y' (isCmd=false)", peer.cmds[0], peer.isCmd[0])
	}
}

func TestControllerWriteDifferentTargetForcesReaddress(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	peer := newFakeAcceptor(bus)

	if err := c.Init(22); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)
	if err := c.Write([]byte("X")); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)

	if err := c.Init(5); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)

	peer.cmds = nil
	peer.isCmd = nil
	if err := c.Write([]byte("Z")); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)

	wantCmds := []byte{cmdUNL, cmdUNT, cmdMTA(controllerTestAddress), cmdMLA(5)}
	if len(peer.cmds) != len(wantCmds)+1 {
		t.Fatalf("peer received %d bytes, want %d (re-addressing expected): %v", len(peer.cmds), len(wantCmds)+1, peer.cmds)
	}
}

func TestControllerListenReceivesPayloadWithEOI(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	init := newFakeAcceptor(bus)

	if err := c.Init(22); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, init, 2000)

	peer := newFakeTalkerPeer(bus, []byte("3.14\n"))
	if err := c.Listen(); err != nil {
		t.Fatalf("Listen() = %v, want nil", err)
	}
	runWithTalkerPeer(t, c, peer, 4000)

	if c.LastError() != nil {
		t.Errorf("LastError() = %v, want nil", c.LastError())
	}
	if !c.HasResult() {
		t.Fatal("HasResult() = false, want true")
	}
	got := c.TakeResult()
	if string(got) != "3.14\n" {
		t.Errorf("result = %q, want %q", got, "3.14\n")
	}
	if c.Overflowed() {
		t.Error("Overflowed() = true, want false")
	}
	if c.HasResult() {
		t.Error("HasResult() should be false after TakeResult")
	}
}

func TestControllerListenTimesOutWhenTalkerNeverResponds(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	init := newFakeAcceptor(bus)

	if err := c.Init(22); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, init, 2000)

	peer := newFakeAcceptor(bus)
	if err := c.Listen(); err != nil {
		t.Fatal(err)
	}
	// peer correctly services the addressing handshake (so the controller
	// reaches the data-wait state) but never acts as a talker: DAV is
	// never asserted, so the controller must time out rather than hang.
	for i := 0; i < 10000 && !c.Idle(); i++ {
		clock.advance(50)
		c.Step()
		peer.step()
	}
	if !c.Idle() {
		t.Fatal("controller never returned to Idle after a silent talker")
	}
	if c.LastError() != ErrListenTimeout {
		t.Errorf("LastError() = %v, want ErrListenTimeout", c.LastError())
	}
}

func TestControllerInitRejectsOutOfRangeAddress(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	if err := c.Init(0); err != ErrInvalidAddress {
		t.Errorf("Init(0) = %v, want ErrInvalidAddress", err)
	}
	if err := c.Init(31); err != ErrInvalidAddress {
		t.Errorf("Init(31) = %v, want ErrInvalidAddress", err)
	}
}

func TestControllerWriteRequiresInit(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	if err := c.Write([]byte("X")); err != ErrNotInitialized {
		t.Errorf("Write() before Init = %v, want ErrNotInitialized", err)
	}
	if err := c.Listen(); err != ErrNotInitialized {
		t.Errorf("Listen() before Init = %v, want ErrNotInitialized", err)
	}
}

func TestControllerWriteRejectsEmptyAndOversizedPayload(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	peer := newFakeAcceptor(bus)
	if err := c.Init(22); err != nil {
		t.Fatal(err)
	}
	runWithAcceptor(t, c, peer, 2000)

	if err := c.Write(nil); err != ErrEmptyPayload {
		t.Errorf("Write(nil) = %v, want ErrEmptyPayload", err)
	}
	oversized := make([]byte, MaxWriteStringLength+1)
	if err := c.Write(oversized); err != ErrPayloadTooLong {
		t.Errorf("Write(oversized) = %v, want ErrPayloadTooLong", err)
	}
}

func TestControllerBusyRejectsNewCommands(t *testing.T) {
	bus := newFakeBus()
	clock := &fakeClock{}
	c := NewController(controllerTestAddress, bus, clock)
	if err := c.Init(22); err != nil {
		t.Fatal(err)
	}
	if err := c.Init(5); err != ErrBusy {
		t.Errorf("Init() while busy = %v, want ErrBusy", err)
	}
}
