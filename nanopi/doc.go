// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nanopi contains nanoPi hardware logic.
//
// Requires armbian jessie server.
//
// # Physical
//
package nanopi
