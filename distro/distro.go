// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package distro

import (
	"io/ioutil"
	"strings"
	"sync"
)

const unknown = "<unknown>"

var (
	dtModelOnce sync.Once
	dtModel     string

	cpuInfoOnce sync.Once
	cpuInfo     map[string]string
)

// DTModel returns the board model as reported by the Device Tree, e.g.
// "Orange Pi Zero" or "FriendlyARM NanoPi NEO Air". Returns "<unknown>" if
// the running kernel has no device tree (most non-ARM machines) or the
// model file can't be read.
func DTModel() string {
	dtModelOnce.Do(func() {
		dtModel = unknown
		if b, err := ioutil.ReadFile("/proc/device-tree/model"); err == nil {
			// The file is NUL-terminated, not newline-terminated.
			dtModel = strings.TrimRight(string(b), "\x00\n")
		}
	})
	return dtModel
}

// CPUInfo returns the key/value pairs reported for the first processor
// entry in /proc/cpuinfo, trimmed of surrounding whitespace. Returns an
// empty (non-nil) map if the file can't be read.
func CPUInfo() map[string]string {
	cpuInfoOnce.Do(func() {
		cpuInfo = map[string]string{}
		b, err := ioutil.ReadFile("/proc/cpuinfo")
		if err != nil {
			return
		}
		for _, line := range strings.Split(string(b), "\n") {
			if line == "" {
				// A blank line ends the first processor's block; later CPUs
				// normally report the same values on SBCs this package targets.
				if len(cpuInfo) > 0 {
					break
				}
				continue
			}
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}
			cpuInfo[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	})
	return cpuInfo
}
