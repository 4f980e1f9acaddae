package wiring

// Mock drivers used for unit testing, here and in packages built on this one.
import (
	"fmt"
)

// MockLineDriver keeps pin state in maps and records every call it gets.
type MockLineDriver struct {
	// If set, only these pins are known; others behave like pins missing from the board table.
	Pins map[Pin]bool

	// Called after a value is stored, so a test can emulate whatever is on the other end of the wire.
	OnSetValue func(pin Pin, value int)

	// Fails Export for these pins.
	ExportErrors map[Pin]error

	pinModes  map[Pin]PinIOMode
	pinValues map[Pin]int
	exported  map[Pin]bool
	calls     []string
}

func (d *MockLineDriver) known(pin Pin) bool {
	return d.Pins == nil || d.Pins[pin]
}

func (d *MockLineDriver) Export(pin Pin) error {
	d.record("Export(%d)", pin)
	if !d.known(pin) {
		return ErrInvalidPin
	}
	if e := d.ExportErrors[pin]; e != nil {
		return e
	}
	d.getExported()[pin] = true
	return nil
}

// Mock records the pin mode being assigned.
func (d *MockLineDriver) SetDirection(pin Pin, mode PinIOMode) error {
	d.record("SetDirection(%d, %s)", pin, mode)
	if !d.known(pin) {
		return ErrInvalidPin
	}
	if !d.getExported()[pin] {
		return ErrUnexportedPin
	}
	d.getPinModes()[pin] = mode
	return nil
}

func (d *MockLineDriver) GetValue(pin Pin) int {
	d.record("GetValue(%d)", pin)
	if !d.known(pin) {
		return GPIO_INVALID_PIN_ERROR
	}
	if !d.getExported()[pin] {
		return GPIO_UNEXPORTED_PIN_ERROR
	}
	return d.getPinValues()[pin]
}

// Mock emulates SetValue by writing the value to pinValues.
func (d *MockLineDriver) SetValue(pin Pin, value int) {
	d.record("SetValue(%d, %d)", pin, value)
	d.getPinValues()[pin] = value
	if d.OnSetValue != nil {
		d.OnSetValue(pin, value)
	}
}

func (d *MockLineDriver) record(format string, args ...interface{}) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

// Getter that gets the pinModes map on demand, and creating it on first
// instance.
func (d *MockLineDriver) getPinModes() map[Pin]PinIOMode {
	if d.pinModes == nil {
		d.pinModes = make(map[Pin]PinIOMode)
	}
	return d.pinModes
}

func (d *MockLineDriver) getPinValues() map[Pin]int {
	if d.pinValues == nil {
		d.pinValues = make(map[Pin]int)
	}
	return d.pinValues
}

func (d *MockLineDriver) getExported() map[Pin]bool {
	if d.exported == nil {
		d.exported = make(map[Pin]bool)
	}
	return d.exported
}

func (d *MockLineDriver) MockGetPinMode(pin Pin) (PinIOMode, bool) {
	m, ok := d.getPinModes()[pin]
	return m, ok
}

func (d *MockLineDriver) MockGetPinValue(pin Pin) int {
	return d.getPinValues()[pin]
}

// MockSetPinValue sets what GetValue returns without recording a call or running OnSetValue.
func (d *MockLineDriver) MockSetPinValue(pin Pin, value int) {
	d.getPinValues()[pin] = value
}

func (d *MockLineDriver) MockExported(pin Pin) bool {
	return d.getExported()[pin]
}

// MockCalls returns the calls received so far, formatted like "SetValue(3, 1)".
func (d *MockLineDriver) MockCalls() []string {
	return d.calls
}

// MockCount returns how many recorded calls equal call exactly.
func (d *MockLineDriver) MockCount(call string) int {
	n := 0
	for _, c := range d.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (d *MockLineDriver) MockReset() {
	d.calls = nil
}

// MockADC is a converter that returns fixed values per channel. It can be made to report not ready for a
// number of polls after each Start, or forever.
type MockADC struct {
	Bits   uint32
	Values map[ADCChannelNumber]uint32

	// DataReady returns false this many times after each Start. Negative means never ready.
	PollsBeforeReady int

	Enabled  []ADCChannelNumber
	Disabled []ADCChannelNumber
	Starts   int
	Polls    int
	Reads    int

	current ADCChannelNumber
	pending int
}

func (a *MockADC) EnableChannel(ch ADCChannelNumber) {
	a.Enabled = append(a.Enabled, ch)
	a.current = ch
}

func (a *MockADC) DisableChannel(ch ADCChannelNumber) {
	a.Disabled = append(a.Disabled, ch)
}

func (a *MockADC) Start() {
	a.Starts++
	a.pending = a.PollsBeforeReady
}

func (a *MockADC) DataReady() bool {
	a.Polls++
	if a.pending < 0 {
		return false
	}
	if a.pending > 0 {
		a.pending--
		return false
	}
	return true
}

func (a *MockADC) LatestValue() uint32 {
	a.Reads++
	return a.Values[a.current]
}

func (a *MockADC) Resolution() uint32 {
	return a.Bits
}

// Calls returns the total number of calls that touch the converter.
func (a *MockADC) Calls() int {
	return len(a.Enabled) + len(a.Disabled) + a.Starts + a.Polls + a.Reads
}
