// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import "testing"

func TestFIFOEnqueueDequeueOrder(t *testing.T) {
	f := newFIFO(4)
	if !f.isEmpty() {
		t.Fatal("new fifo should be empty")
	}
	if err := f.enqueue(0x01, false); err != nil {
		t.Fatal(err)
	}
	if err := f.enqueue(0x3F, true); err != nil {
		t.Fatal(err)
	}
	if f.len() != 2 {
		t.Errorf("len() = %d, want 2", f.len())
	}
	if b, isCmd := f.dequeue(); b != 0x01 || isCmd {
		t.Errorf("dequeue() = (%#x, %v), want (0x01, false)", b, isCmd)
	}
	if b, isCmd := f.dequeue(); b != 0x3F || !isCmd {
		t.Errorf("dequeue() = (%#x, %v), want (0x3f, true)", b, isCmd)
	}
	if !f.isEmpty() {
		t.Error("fifo should be empty after draining")
	}
}

func TestFIFOFullReturnsErrQueueFull(t *testing.T) {
	f := newFIFO(2)
	if err := f.enqueue(1, false); err != nil {
		t.Fatal(err)
	}
	if err := f.enqueue(2, false); err != nil {
		t.Fatal(err)
	}
	if err := f.enqueue(3, false); err != ErrQueueFull {
		t.Errorf("enqueue() on full fifo = %v, want ErrQueueFull", err)
	}
	if f.len() != 2 {
		t.Errorf("len() = %d, want 2 (dropped byte must not be admitted)", f.len())
	}
}

func TestFIFOWrapsAroundRingBuffer(t *testing.T) {
	f := newFIFO(3)
	_ = f.enqueue(1, false)
	_ = f.enqueue(2, false)
	f.dequeue()
	_ = f.enqueue(3, false)
	_ = f.enqueue(4, false)
	var got []byte
	for !f.isEmpty() {
		b, _ := f.dequeue()
		got = append(got, b)
	}
	want := []byte{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFIFODequeueEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("dequeue on empty fifo should panic")
		}
	}()
	f := newFIFO(1)
	f.dequeue()
}
