// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

// fakeBus is a software model of the open-collector GPIB wire: both sides
// (the Controller under test and a simulated peer instrument) assert and
// release bits independently, and a line reads asserted if either side
// pulls it low. It exists only for tests in this package.
type fakeBus struct {
	mine  uint16
	other uint16
	dio   byte
}

func newFakeBus() *fakeBus {
	return &fakeBus{}
}

func (b *fakeBus) Assert(l Line)  { b.mine |= l.mask() }
func (b *fakeBus) Release(l Line) { b.mine &^= l.mask() }

func (b *fakeBus) Read(l Line) bool {
	return b.Snapshot()&l.mask() != 0
}

func (b *fakeBus) Snapshot() uint16 {
	return (b.mine|b.other)&0xFF00 | uint16(b.dio)
}

func (b *fakeBus) SetDIO(v byte) {
	b.dio = v
}

// peerBus is the same fakeBus viewed from the simulated peer's side: its
// Assert/Release touch the "other" half of the wired-AND state.
type peerBus struct {
	b *fakeBus
}

func (p peerBus) Assert(l Line)  { p.b.other |= l.mask() }
func (p peerBus) Release(l Line) { p.b.other &^= l.mask() }
func (p peerBus) Read(l Line) bool {
	return p.b.Read(l)
}
func (p peerBus) Snapshot() uint16 { return p.b.Snapshot() }
func (p peerBus) SetDIO(v byte)    { p.b.dio = v }

// fakeClock is a manually advanced Clock for exercising timeouts without a
// real timer.
type fakeClock struct {
	now uint32
}

func (c *fakeClock) Millis() uint32 { return c.now }
func (c *fakeClock) advance(ms uint32) {
	c.now += ms
}

// fakeAcceptor plays the listener side of the three-wire handshake
// unconditionally, recording every byte it receives along with whether ATN
// was asserted when it arrived. It never sends anything itself; it is the
// peer for INIT and WRITE scenarios, where the Controller is always the
// Talker.
type fakeAcceptor struct {
	bus   *fakeBus
	pv    peerBus
	state int // 0: not ready, 1: waiting for DAV, 2: waiting for DAV release
	cmds  []byte
	isCmd []bool
}

func newFakeAcceptor(bus *fakeBus) *fakeAcceptor {
	a := &fakeAcceptor{bus: bus, pv: peerBus{bus}}
	a.pv.Assert(NRFD)
	a.pv.Assert(NDAC)
	return a
}

func (a *fakeAcceptor) step() {
	snap := a.bus.Snapshot()
	switch a.state {
	case 0:
		a.pv.Release(NRFD)
		a.state = 1
	case 1:
		if snap&DAV.mask() != 0 {
			a.cmds = append(a.cmds, snapshotDIO(snap))
			a.isCmd = append(a.isCmd, snap&ATN.mask() != 0)
			a.pv.Assert(NRFD)
			a.pv.Release(NDAC)
			a.state = 2
		}
	case 2:
		if snap&DAV.mask() == 0 {
			a.pv.Assert(NDAC)
			a.state = 0
		}
	}
}

// fakeTalkerPeer plays both bus roles a remote instrument takes during a
// LISTEN transaction: acceptor while ATN is asserted (absorbing the
// addressing commands and the Phase 3 self-unaddress UNT), Talker of a
// fixed payload while ATN is released.
type fakeTalkerPeer struct {
	bus *fakeBus
	pv  peerBus

	accState int // 0: not ready, 1: waiting for DAV, 2: waiting for DAV release

	payload    []byte
	bodyQueued bool
	finalSent  bool
	q          *fifo
	tk         *talker
}

func newFakeTalkerPeer(bus *fakeBus, payload []byte) *fakeTalkerPeer {
	p := &fakeTalkerPeer{bus: bus, pv: peerBus{bus}, payload: payload}
	p.pv.Assert(NRFD)
	p.pv.Assert(NDAC)
	p.q = newFIFO(len(payload) + 1)
	p.tk = newTalker(p.q)
	return p
}

func (p *fakeTalkerPeer) step() {
	snap := p.bus.Snapshot()
	if snap&ATN.mask() != 0 {
		p.acceptorStep(snap)
		return
	}
	// As Talker the peer no longer holds the acceptor-side lines.
	p.pv.Release(NRFD)
	p.pv.Release(NDAC)
	if !p.bodyQueued {
		for i := 0; i < len(p.payload)-1; i++ {
			_ = p.q.enqueue(p.payload[i], false)
		}
		p.bodyQueued = true
	}
	if !p.finalSent && p.tk.ready() && p.q.isEmpty() {
		p.pv.Assert(EOI)
		_ = p.q.enqueue(p.payload[len(p.payload)-1], false)
		p.finalSent = true
	}
	p.tk.step(p.pv, snap)
	if p.finalSent && p.tk.ready() {
		p.pv.Release(EOI)
	}
}

func (p *fakeTalkerPeer) acceptorStep(snap uint16) {
	switch p.accState {
	case 0:
		p.pv.Release(NRFD)
		p.accState = 1
	case 1:
		if snap&DAV.mask() != 0 {
			p.pv.Assert(NRFD)
			p.pv.Release(NDAC)
			p.accState = 2
		}
	case 2:
		if snap&DAV.mask() == 0 {
			p.pv.Assert(NDAC)
			p.accState = 0
		}
	}
}
