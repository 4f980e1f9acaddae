// Support for 74HC165 parallel-in, serial-out shift registers, alone or daisy chained through DS.

package sr165

import (
	"fmt"

	"github.com/silver2row/libwyliodrin/wiring"
)

type SR165 struct {
	gpio    wiring.GPIO
	shifter *wiring.Shifter

	dataPin  wiring.Pin // connected to pin 9 (Q7)
	clockPin wiring.Pin // connected to pin 2 (CP)
	loadPin  wiring.Pin // connected to pin 1 (PL), active low

	chained int
}

// Create a driver for chained registers. The data pin becomes an input; clock and load become outputs
// with load held high.
func NewSR165(gpio wiring.GPIO, dataPin, clockPin, loadPin wiring.Pin, chained int) (*SR165, error) {
	if chained < 1 {
		return nil, fmt.Errorf("a 74HC165 chain needs at least one register, got %d", chained)
	}

	gpio.PinMode(dataPin, wiring.INPUT)
	gpio.PinMode(clockPin, wiring.OUTPUT)
	gpio.PinMode(loadPin, wiring.OUTPUT)
	gpio.DigitalWrite(loadPin, wiring.HIGH)
	gpio.DigitalWrite(clockPin, wiring.LOW)

	return &SR165{
		gpio:     gpio,
		shifter:  wiring.NewShifter(gpio),
		dataPin:  dataPin,
		clockPin: clockPin,
		loadPin:  loadPin,
		chained:  chained,
	}, nil
}

// latch copies the parallel inputs into the registers and leaves the clock high. ShiftIn raises the clock
// before each sample, so starting high means the first sample sees D7 rather than a bit that has
// already been shifted past. The clock is raised while load is low, when the chip ignores it.
func (d *SR165) latch() {
	d.gpio.DigitalWrite(d.loadPin, wiring.LOW)
	d.gpio.DigitalWrite(d.clockPin, wiring.HIGH)
	d.gpio.DigitalWrite(d.loadPin, wiring.HIGH)
}

// Read samples the inputs of every register. Byte 0 is the register wired to the data pin; bit n of a
// byte is input Dn.
func (d *SR165) Read() []byte {
	d.latch()
	result := make([]byte, d.chained)
	for i := range result {
		result[i] = d.shifter.ShiftIn(d.dataPin, d.clockPin, wiring.MSBFIRST)
	}
	return result
}

// ReadStrict is Read that fails if the data pin cannot be read, instead of returning garbage.
func (d *SR165) ReadStrict() ([]byte, error) {
	d.latch()
	result := make([]byte, d.chained)
	for i := range result {
		v, e := d.shifter.ShiftInStrict(d.dataPin, d.clockPin, wiring.MSBFIRST)
		if e != nil {
			return nil, fmt.Errorf("register %d: %w", i, e)
		}
		result[i] = v
	}
	return result, nil
}
