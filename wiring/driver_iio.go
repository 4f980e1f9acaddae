// An ADC driver over the Linux industrial I/O sysfs interface. Each converter input appears as
// in_voltage{n}_raw under the device directory, e.g. /sys/bus/iio/devices/iio:device0.

package wiring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultIIODevicesGlob = "/sys/bus/iio/devices/iio:device*"

type IIOADCDriver struct {
	path string
	bits uint32

	files   map[ADCChannelNumber]*os.File
	current *os.File

	latest uint32
	ready  bool
	err    error
}

// NewIIOADCDriver reads from the IIO device at path, whose samples are bits wide.
func NewIIOADCDriver(path string, bits uint32) *IIOADCDriver {
	return &IIOADCDriver{path: path, bits: bits, files: make(map[ADCChannelNumber]*os.File)}
}

// FindIIODevice returns the first IIO device directory, or an error if there is none.
func FindIIODevice() (string, error) {
	path, e := findFirstMatchingFile(defaultIIODevicesGlob)
	if e != nil {
		return "", e
	}
	if path == "" {
		return "", errors.New("Could not locate " + defaultIIODevicesGlob)
	}
	return path, nil
}

// EnableChannel opens the channel's raw value file the first time it is used.
func (d *IIOADCDriver) EnableChannel(ch ADCChannelNumber) {
	f := d.files[ch]
	if f == nil {
		var e error
		f, e = os.OpenFile(filepath.Join(d.path, fmt.Sprintf("in_voltage%d_raw", ch)), os.O_RDONLY, 0666)
		if e != nil {
			d.err = e
			d.current = nil
			return
		}
		d.files[ch] = f
	}
	d.current = f
}

func (d *IIOADCDriver) DisableChannel(ch ADCChannelNumber) {
	if d.files[ch] == d.current {
		d.current = nil
	}
}

// Start latches a sample from the enabled channel. The kernel does the conversion during the read, so the
// sample is ready as soon as Start returns. A failed read latches 0 and is reported by Err.
func (d *IIOADCDriver) Start() {
	d.ready = false
	d.latest = 0
	if d.current == nil {
		if d.err == nil {
			d.err = errors.New("no ADC channel enabled")
		}
		d.ready = true
		return
	}

	b := make([]byte, 16)
	n, e := d.current.ReadAt(b, 0)

	// if there's an error and no bytes were read, quit now. A short read also returns io.EOF, which is
	// expected.
	if e != nil && n == 0 {
		d.err = e
		d.ready = true
		return
	}

	value, e := strconv.ParseUint(strings.TrimSpace(string(b[:n])), 10, 32)
	if e != nil {
		d.err = e
	} else {
		d.latest = uint32(value)
	}
	d.ready = true
}

func (d *IIOADCDriver) DataReady() bool {
	return d.ready
}

func (d *IIOADCDriver) LatestValue() uint32 {
	return d.latest
}

func (d *IIOADCDriver) Resolution() uint32 {
	return d.bits
}

// Err returns and clears the last error seen while reading.
func (d *IIOADCDriver) Err() error {
	e := d.err
	d.err = nil
	return e
}

// Close closes all open channel files.
func (d *IIOADCDriver) Close() error {
	var errs []error
	for ch, f := range d.files {
		if e := f.Close(); e != nil {
			errs = append(errs, e)
		}
		delete(d.files, ch)
	}
	d.current = nil
	return errors.Join(errs...)
}
