// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command gpibctld runs the GPIB bit-banged controller against a real Bus,
// taking INIT/WRITE/LISTEN commands from a serial link and printing LISTEN
// results back to it.
//
// It is the runnable host for the gpib package: it owns the single
// cooperative loop, calling command intake and gpib.Controller.Step back
// to back on every iteration.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	serial "github.com/daedaluz/goserial"

	"github.com/jsnano/gpibctl"
	"github.com/jsnano/gpibctl/gpib"
	"github.com/jsnano/gpibctl/gpioioctl"
	"github.com/jsnano/gpibctl/sysfs"
)

func main() {
	controllerAddr := flag.Int("addr", 0, "controller's own GPIB address (0..30)")
	device := flag.String("serial", "/dev/ttyUSB0", "serial device the host command link is on")
	baud := flag.Int("baud", 115200, "serial baud rate")
	backend := flag.String("bus", "sysfs", "Bus backend: sysfs or gpioioctl")
	chipPath := flag.String("chip", "/dev/gpiochip0", "gpiochip device, used only when -bus=gpioioctl")
	flag.Parse()

	if *controllerAddr < 0 || *controllerAddr > 30 {
		log.Fatalf("gpibctld: -addr must be 0..30, got %d", *controllerAddr)
	}

	bus, err := openBus(*backend, *chipPath)
	if err != nil {
		log.Fatalf("gpibctld: %v", err)
	}

	port, err := openSerial(*device, *baud)
	if err != nil {
		log.Fatalf("gpibctld: opening %s: %v", *device, err)
	}
	defer port.Close()

	controller := gpib.NewController(uint8(*controllerAddr), bus, gpib.NewSystemClock())
	intake := newLineReader(port)

	log.Printf("gpibctld: ready, controller address %d, bus %s", *controllerAddr, *backend)
	for {
		if controller.Idle() {
			if line, ok := intake.poll(); ok {
				handleLine(controller, port, line)
			}
		}
		controller.Step()
		if controller.HasResult() {
			result := controller.TakeResult()
			reportResult(port, controller, result)
		}
	}
}

// openBus constructs the Bus backend named by name. A full board deployment
// would normally call host.Init() and pick among orangepi.Zero.Bus(),
// nanopi.NeoAir.Bus(), or an allwinner.FastBus/ftdi.NewGPIBBus pinout built
// from the operator's own wiring; gpibctld keeps the generic sysfs/gpioioctl
// backends front and center since they need no board-specific pin table.
func openBus(name, chipPath string) (gpib.Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host.Init: %w", err)
	}
	switch name {
	case "sysfs":
		return sysfs.NewGPIBBus(defaultSysfsPinout())
	case "gpioioctl":
		chip := findChip(chipPath)
		if chip == nil {
			return nil, fmt.Errorf("no GPIO chip matching %q found", chipPath)
		}
		return gpioioctl.NewGPIBBus(chip, defaultGPIOIoctlPinout())
	default:
		return nil, fmt.Errorf("unknown -bus %q, want sysfs or gpioioctl", name)
	}
}

// findChip returns the registered chip at chipPath, or the first chip
// discovered by host.Init() if none matches exactly.
func findChip(chipPath string) *gpioioctl.GPIOChip {
	for _, c := range gpioioctl.Chips {
		if c.Path() == chipPath {
			return c
		}
	}
	if len(gpioioctl.Chips) > 0 {
		return gpioioctl.Chips[0]
	}
	return nil
}

// defaultSysfsPinout is a placeholder wiring table; real deployments supply
// their own GPIO numbers matching how the sixteen GPIB lines are actually
// wired to header pins.
func defaultSysfsPinout() sysfs.GPIBPinout {
	return sysfs.GPIBPinout{
		DIO1: 2, DIO2: 3, DIO3: 4, DIO4: 17,
		DIO5: 27, DIO6: 22, DIO7: 10, DIO8: 9,
		DAV: 11, NRFD: 5, NDAC: 6,
		EOI: 13, IFC: 19, ATN: 26, REN: 21, SRQ: 20,
	}
}

func defaultGPIOIoctlPinout() gpioioctl.GPIBPinout {
	return gpioioctl.GPIBPinout{
		DIO1: "GPIO2", DIO2: "GPIO3", DIO3: "GPIO4", DIO4: "GPIO17",
		DIO5: "GPIO27", DIO6: "GPIO22", DIO7: "GPIO10", DIO8: "GPIO9",
		DAV: "GPIO11", NRFD: "GPIO5", NDAC: "GPIO6",
		EOI: "GPIO13", IFC: "GPIO19", ATN: "GPIO26", REN: "GPIO21", SRQ: "GPIO20",
	}
}

func openSerial(device string, baud int) (*serial.Port, error) {
	port, err := serial.Open(device, nil)
	if err != nil {
		return nil, err
	}
	var t serial.Termios
	t.MakeRaw()
	switch baud {
	case 9600:
		t.SetSpeed(serial.B9600)
	case 115200:
		t.SetSpeed(serial.B115200)
	default:
		t.SetSpeed(serial.B115200)
	}
	if err := port.SetAttr(serial.TCSANOW, &t); err != nil {
		port.Close()
		return nil, err
	}
	port.SetReadTimeout(0)
	return port, nil
}

// maxCommandLength bounds an incoming serial line, mirroring the Arduino
// firmware's MAX_COMMAND_LENGTH guard against a runaway host link.
const maxCommandLength = 128

// lineReader accumulates bytes from a serial port into newline- or
// comma-terminated commands without ever blocking the caller: a read that
// returns nothing is simply tried again on the next poll: no operation in
// this loop suspends or blocks on I/O.
type lineReader struct {
	r   interface{ Read([]byte) (int, error) }
	buf []byte
	tmp [64]byte
}

func newLineReader(r interface{ Read([]byte) (int, error) }) *lineReader {
	return &lineReader{r: r}
}

// poll reads whatever is available and returns the next complete line, if
// any. A line longer than maxCommandLength is dropped and logged, matching
// the firmware's behavior of rejecting over-long input.
func (l *lineReader) poll() (string, bool) {
	n, err := l.r.Read(l.tmp[:])
	if n > 0 {
		l.buf = append(l.buf, l.tmp[:n]...)
	}
	_ = err // a read timeout/EAGAIN here just means "nothing yet".

	for i, b := range l.buf {
		if b == '\n' || b == ',' {
			line := strings.TrimRight(string(l.buf[:i]), "\r")
			l.buf = append([]byte{}, l.buf[i+1:]...)
			if len(line) > maxCommandLength {
				log.Printf("gpibctld: dropping over-long command (%d bytes)", len(line))
				return "", false
			}
			return line, true
		}
	}
	if len(l.buf) > maxCommandLength {
		log.Printf("gpibctld: dropping over-long unterminated input")
		l.buf = l.buf[:0]
	}
	return "", false
}

// handleLine parses one command line: "*INIT <addr>", "*WRITE <text>",
// "*LISTEN". Anything not starting with "*" is rejected, matching the
// original firmware's handleSerialInput.
func handleLine(c *gpib.Controller, port *serial.Port, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if !strings.HasPrefix(line, "*") {
		reportErrorf(port, "unrecognized command %q, expected a line starting with '*'", line)
		return
	}
	body := strings.TrimPrefix(line, "*")
	switch {
	case strings.HasPrefix(strings.ToUpper(body), "INIT"):
		arg := strings.TrimSpace(body[len("INIT"):])
		addr, err := strconv.Atoi(arg)
		if err != nil || addr < 0 || addr > gpib.MaxAddress {
			reportErrorf(port, "INIT: invalid address %q", arg)
			return
		}
		if err := c.Init(uint8(addr)); err != nil {
			reportErrorf(port, "INIT: %v", err)
		}
	case strings.HasPrefix(strings.ToUpper(body), "WRITE"):
		text := strings.TrimSpace(body[len("WRITE"):])
		if err := c.Write([]byte(text)); err != nil {
			reportErrorf(port, "WRITE: %v", err)
		}
	case strings.EqualFold(strings.TrimSpace(body), "LISTEN"):
		if err := c.Listen(); err != nil {
			reportErrorf(port, "LISTEN: %v", err)
		}
	default:
		reportErrorf(port, "unrecognized command %q", line)
	}
}

func reportResult(port *serial.Port, c *gpib.Controller, result []byte) {
	if err := c.LastError(); err != nil {
		reportErrorf(port, "transaction finished with error: %v", err)
	}
	if c.Overflowed() {
		log.Printf("gpibctld: LISTEN receive buffer overflowed, result truncated")
	}
	_, _ = port.Write(append(result, '\n'))
}

func reportErrorf(port *serial.Port, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Printf("gpibctld: %s", msg)
	_, _ = port.Write([]byte("ERR " + msg + "\n"))
}
