// Support for 74HC595 serial-in, parallel-out shift registers, alone or daisy chained through Q7'.

package sr595

import (
	"fmt"

	"github.com/silver2row/libwyliodrin/wiring"
)

type SR595 struct {
	gpio    wiring.GPIO
	shifter *wiring.Shifter

	dataPin  wiring.Pin // connected to pin 14 (DS)
	clockPin wiring.Pin // connected to pin 11 (SH_CP)
	latchPin wiring.Pin // connected to pin 12 (ST_CP)

	// output state, one byte per register. state[0] is the register wired to the data pin.
	state []byte
}

// Create a driver for chained registers. The three pins are made outputs, and clock and latch are set
// low, as both trigger on the rising edge.
func NewSR595(gpio wiring.GPIO, dataPin, clockPin, latchPin wiring.Pin, chained int) (*SR595, error) {
	if chained < 1 {
		return nil, fmt.Errorf("a 74HC595 chain needs at least one register, got %d", chained)
	}

	gpio.PinMode(dataPin, wiring.OUTPUT)
	gpio.PinMode(clockPin, wiring.OUTPUT)
	gpio.PinMode(latchPin, wiring.OUTPUT)
	gpio.DigitalWrite(clockPin, wiring.LOW)
	gpio.DigitalWrite(latchPin, wiring.LOW)

	return &SR595{
		gpio:     gpio,
		shifter:  wiring.NewShifter(gpio),
		dataPin:  dataPin,
		clockPin: clockPin,
		latchPin: latchPin,
		state:    make([]byte, chained),
	}, nil
}

// Write sets the outputs of every register, values[0] going to the register nearest the data pin. The
// farthest register's byte is shifted first, then the latch is pulsed once.
func (d *SR595) Write(values ...byte) error {
	if len(values) != len(d.state) {
		return fmt.Errorf("chain has %d registers, got %d bytes", len(d.state), len(values))
	}
	copy(d.state, values)
	d.flush()
	return nil
}

// SetOutput changes one output. Output n is bit n%8 of register n/8.
func (d *SR595) SetOutput(n int, value int) error {
	if n < 0 || n >= len(d.state)*8 {
		return fmt.Errorf("output %d is out of range for %d registers", n, len(d.state))
	}
	mask := byte(1) << uint(n%8)
	if value == wiring.LOW {
		d.state[n/8] &^= mask
	} else {
		d.state[n/8] |= mask
	}
	d.flush()
	return nil
}

// Clear sets every output low.
func (d *SR595) Clear() {
	for i := range d.state {
		d.state[i] = 0
	}
	d.flush()
}

// State returns a copy of the last values written.
func (d *SR595) State() []byte {
	return append([]byte(nil), d.state...)
}

func (d *SR595) flush() {
	for i := len(d.state) - 1; i >= 0; i-- {
		d.shifter.ShiftOut(d.dataPin, d.clockPin, wiring.MSBFIRST, d.state[i])
	}

	// Pulse the store pin once
	d.gpio.DigitalWrite(d.latchPin, wiring.HIGH)
	d.gpio.DigitalWrite(d.latchPin, wiring.LOW)
}
