// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// fileIO is the subset of *os.File this package needs; it exists so tests
// could substitute a fake, the same reason periph.io/x/conn abstracts file
// access behind small interfaces elsewhere in this repo.
type fileIO interface {
	io.ReadWriteCloser
	Fd() uintptr
}

func fileIOOpen(path string, flag int) (fileIO, error) {
	return os.OpenFile(path, flag, 0600)
}

// seekRead seeks to the start of f and reads into b.
func seekRead(f fileIO, b []byte) (int, error) {
	if s, ok := f.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
	}
	return f.Read(b)
}

// seekWrite seeks to the start of f and writes b.
func seekWrite(f fileIO, b []byte) error {
	if s, ok := f.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}
	_, err := f.Write(b)
	return err
}

// isErrBusy reports whether err is EBUSY, the error sysfs GPIO export
// returns when the pin is already exported.
func isErrBusy(err error) bool {
	return errors.Is(err, syscall.EBUSY)
}
