// A line driver that uses the Linux GPIO sysfs interface.
//
// For GPIO:
// - write the GPIO number to /sys/class/gpio/export.
// - write direction to /sys/class/gpio/gpio{nn}/direction. Values are 'in' and 'out'
// - read or write /sys/class/gpio/gpio{nn}/value.

package wiring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const defaultGPIOSysfsRoot = "/sys/class/gpio"

type SysfsLineDriver struct {
	root     string
	lines    map[Pin]int
	openPins map[Pin]*sysfsOpenPin
}

type sysfsOpenPin struct {
	pin          Pin
	gpioLogical  int
	gpioBaseName string
	valueFile    *os.File
}

// NewSysfsLineDriver creates a driver for the given pins. lines maps each logical pin to its kernel GPIO
// number.
func NewSysfsLineDriver(lines map[Pin]int) *SysfsLineDriver {
	return &SysfsLineDriver{
		root:     defaultGPIOSysfsRoot,
		lines:    lines,
		openPins: make(map[Pin]*sysfsOpenPin),
	}
}

// SetRoot changes the directory used in place of /sys/class/gpio.
func (d *SysfsLineDriver) SetRoot(root string) {
	d.root = root
}

// Export makes the pin's line available in sysfs. Exporting an already exported line is not an error.
func (d *SysfsLineDriver) Export(pin Pin) error {
	gpioLogical, ok := d.lines[pin]
	if !ok {
		return fmt.Errorf("pin %d: %w", pin, ErrInvalidPin)
	}
	if d.openPins[pin] != nil {
		return nil
	}

	op := &sysfsOpenPin{pin: pin, gpioLogical: gpioLogical}
	op.gpioBaseName = filepath.Join(d.root, "gpio"+strconv.Itoa(gpioLogical))

	e := writeStringToFile(filepath.Join(d.root, "export"), strconv.Itoa(gpioLogical))
	if e != nil {
		// the kernel refuses to export a line twice; if the directory is there we can use it.
		if _, se := os.Stat(op.gpioBaseName); se != nil {
			return fmt.Errorf("export gpio%d: %w", gpioLogical, e)
		}
	}

	d.openPins[pin] = op
	return nil
}

// Unexport releases a single line.
func (d *SysfsLineDriver) Unexport(pin Pin) error {
	op := d.openPins[pin]
	if op == nil {
		return nil
	}
	delete(d.openPins, pin)
	if op.valueFile != nil {
		op.valueFile.Close()
	}
	return writeStringToFile(filepath.Join(d.root, "unexport"), strconv.Itoa(op.gpioLogical))
}

// Close releases all exported lines.
func (d *SysfsLineDriver) Close() error {
	var errs []error
	for pin := range d.openPins {
		if e := d.Unexport(pin); e != nil {
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}

// Once exported, the direction of a GPIO can be set
func (d *SysfsLineDriver) SetDirection(pin Pin, mode PinIOMode) error {
	op := d.openPins[pin]
	if op == nil {
		if _, ok := d.lines[pin]; !ok {
			return fmt.Errorf("pin %d: %w", pin, ErrInvalidPin)
		}
		return fmt.Errorf("pin %d: %w", pin, ErrUnexportedPin)
	}

	dir := "in"
	if mode == OUTPUT {
		dir = "out"
	}
	if e := writeStringToFile(op.gpioBaseName+"/direction", dir); e != nil {
		return e
	}

	if op.valueFile != nil {
		op.valueFile.Close()
		op.valueFile = nil
	}

	// Keep the value file open; seeking and rewriting is an order of magnitude faster than reopening
	// for every access.
	f, e := os.OpenFile(op.gpioBaseName+"/value", os.O_RDWR, 0666)
	if e != nil {
		return e
	}
	op.valueFile = f
	return nil
}

// Get the value. Will return HIGH, LOW or a GPIO_* sentinel.
func (d *SysfsLineDriver) GetValue(pin Pin) int {
	if _, ok := d.lines[pin]; !ok {
		return GPIO_INVALID_PIN_ERROR
	}
	op := d.openPins[pin]
	if op == nil || op.valueFile == nil {
		return GPIO_UNEXPORTED_PIN_ERROR
	}

	b := make([]byte, 1)
	// a short read reports io.EOF alongside the byte we wanted
	if n, _ := op.valueFile.ReadAt(b, 0); n == 0 {
		return GPIO_READ_ERROR
	}
	if b[0] == '1' {
		return HIGH
	}
	return LOW
}

// Set the value. Any non-zero value drives the line high. Unknown or unexported pins are ignored.
func (d *SysfsLineDriver) SetValue(pin Pin, value int) {
	op := d.openPins[pin]
	if op == nil || op.valueFile == nil {
		return
	}

	// Seek the start of the value file before writing. This is sufficient for the driver to accept a new value.
	if _, e := op.valueFile.Seek(0, 0); e != nil {
		return
	}
	if value == 0 {
		op.valueFile.WriteString("0")
	} else {
		op.valueFile.WriteString("1")
	}
}

func writeStringToFile(filename string, value string) error {
	f, e := os.OpenFile(filename, os.O_WRONLY|os.O_TRUNC, 0666)
	if e != nil {
		return e
	}
	defer f.Close()
	_, e = f.WriteString(value)
	return e
}

// Return the first file that matches a glob pattern, or "" if nothing matches.
func findFirstMatchingFile(glob string) (string, error) {
	matches, e := filepath.Glob(glob)
	if e != nil {
		return "", e
	}
	if len(matches) >= 1 {
		return matches[0], nil
	}
	return "", nil
}
