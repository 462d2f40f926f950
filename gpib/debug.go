// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build gpib_debug
// +build gpib_debug

package gpib

import "log"

// logf is enabled when the build tag gpib_debug is specified.
func logf(fmt string, v ...interface{}) {
	log.Printf(fmt, v...)
}
