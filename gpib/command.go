// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

// MinAddress and MaxAddress bound a valid GPIB primary address. Address 0
// is reserved for the controller itself and is never a valid INIT target.
const (
	MinAddress = 1
	MaxAddress = 30
)

// Init validates targetAddress and arms an INIT transaction.
//
// It returns ErrBusy if a transaction is already in progress and
// ErrInvalidAddress if targetAddress is outside [MinAddress, MaxAddress].
// Unlike WRITE and LISTEN, INIT has no precondition on prior state: it is
// always legal to re-INIT.
func (c *Controller) Init(targetAddress uint8) error {
	if !c.Idle() {
		return ErrBusy
	}
	if targetAddress < MinAddress || targetAddress > MaxAddress {
		return ErrInvalidAddress
	}
	c.startInit(targetAddress)
	return nil
}

// Write validates payload and arms a WRITE transaction against the
// address set by the last successful Init.
//
// It returns ErrBusy if a transaction is already in progress,
// ErrNotInitialized if Init has never succeeded, ErrEmptyPayload if
// payload is empty, and ErrPayloadTooLong if payload exceeds
// MaxWriteStringLength.
func (c *Controller) Write(payload []byte) error {
	if !c.Idle() {
		return ErrBusy
	}
	if !c.haveTarget {
		return ErrNotInitialized
	}
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if len(payload) > MaxWriteStringLength {
		return ErrPayloadTooLong
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	c.startWrite(buf)
	return nil
}

// Listen arms a LISTEN transaction against the address set by the last
// successful Init.
//
// It returns ErrBusy if a transaction is already in progress and
// ErrNotInitialized if Init has never succeeded.
func (c *Controller) Listen() error {
	if !c.Idle() {
		return ErrBusy
	}
	if !c.haveTarget {
		return ErrNotInitialized
	}
	c.startListen()
	return nil
}
