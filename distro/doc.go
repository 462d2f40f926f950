// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package distro provides cached access to a few pseudo-files Linux exposes
// about the running board and CPU, so board-detection code (orangepi,
// nanopi, allwinner) doesn't each re-read and re-parse them.
package distro
