package wiring

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PeriphLineDriver drives lines through periph.io. It needs periph's host drivers registered (host.Init)
// before Export is called, unless a lookup function is supplied.
type PeriphLineDriver struct {
	names  map[Pin]string
	lines  map[Pin]gpio.PinIO
	lookup func(name string) gpio.PinIO
}

// NewPeriphLineDriver maps logical pins to periph pin names, e.g. "GPIO40".
func NewPeriphLineDriver(names map[Pin]string) *PeriphLineDriver {
	return &PeriphLineDriver{
		names:  names,
		lines:  make(map[Pin]gpio.PinIO),
		lookup: gpioreg.ByName,
	}
}

// SetLookup replaces gpioreg.ByName as the way names are resolved to pins.
func (d *PeriphLineDriver) SetLookup(lookup func(name string) gpio.PinIO) {
	d.lookup = lookup
}

func (d *PeriphLineDriver) Export(pin Pin) error {
	name, ok := d.names[pin]
	if !ok {
		return fmt.Errorf("pin %d: %w", pin, ErrInvalidPin)
	}
	p := d.lookup(name)
	if p == nil {
		return fmt.Errorf("pin %d: periph has no pin called %q: %w", pin, name, ErrInvalidPin)
	}
	d.lines[pin] = p
	return nil
}

// SetDirection switches the line. periph has no direction-only call, so OUTPUT also drives the line LOW,
// which matches what the kernel does when "out" is written to sysfs.
func (d *PeriphLineDriver) SetDirection(pin Pin, mode PinIOMode) error {
	p := d.lines[pin]
	if p == nil {
		if _, ok := d.names[pin]; !ok {
			return fmt.Errorf("pin %d: %w", pin, ErrInvalidPin)
		}
		return fmt.Errorf("pin %d: %w", pin, ErrUnexportedPin)
	}
	if mode == OUTPUT {
		return p.Out(gpio.Low)
	}
	return p.In(gpio.PullNoChange, gpio.NoEdge)
}

func (d *PeriphLineDriver) GetValue(pin Pin) int {
	if _, ok := d.names[pin]; !ok {
		return GPIO_INVALID_PIN_ERROR
	}
	p := d.lines[pin]
	if p == nil {
		return GPIO_UNEXPORTED_PIN_ERROR
	}
	if p.Read() == gpio.High {
		return HIGH
	}
	return LOW
}

func (d *PeriphLineDriver) SetValue(pin Pin, value int) {
	p := d.lines[pin]
	if p == nil {
		return
	}
	p.Out(gpio.Level(value != 0))
}

// Close halts every line that was exported.
func (d *PeriphLineDriver) Close() error {
	var first error
	for pin, p := range d.lines {
		if e := p.Halt(); e != nil && first == nil {
			first = e
		}
		delete(d.lines, pin)
	}
	return first
}
