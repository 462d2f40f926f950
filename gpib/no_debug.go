// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// +build !gpib_debug

package gpib

// logf is disabled when the build tag gpib_debug is not specified.
func logf(fmt string, v ...interface{}) {
}
