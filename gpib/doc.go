// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpib implements a bit-banged IEEE-488 (GPIB) System Controller.
//
// It drives the sixteen GPIB lines (8 data, DAV/NRFD/NDAC, EOI/IFC/ATN/
// REN/SRQ) through a small Bus capability and sequences INIT, WRITE, and
// LISTEN transactions with two cooperative state machines: a Talker that
// clocks one byte at a time through the three-wire handshake, and a
// Controller that sequences the higher-level transaction and reuses the
// Talker for both command bytes (ATN asserted) and data bytes.
//
// Nothing in this package blocks. Controller.Step and Talker.step each
// perform at most one transition per call and must be driven from a single
// cooperative loop; concurrent use of a single Controller from more than one
// goroutine is not supported.
package gpib
