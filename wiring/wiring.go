// Package wiring implements the Arduino pin functions for the UDOO board: digital and analog I/O,
// bit-banged shiftIn/shiftOut, and the time functions. Each concern lives in a module that a board
// driver creates; the package level functions use the modules of the driver given to SetDriver.
package wiring

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// This is the interface that hardware drivers implement.
type HardwareDriver interface {
	// Examine the environment and report whether this driver can run on it
	MatchesHardwareConfig() bool

	// Initialise the driver after creation
	Init() error

	// The modules created by Init, keyed by name: "gpio", "analog", "timer"
	GetModules() map[string]Module

	// Return the pin map for the driver, listing all supported pins and their capabilities
	PinMap() HardwarePinMap

	// Close the driver before destruction
	Close()
}

// Reference to driver we're using
var driver HardwareDriver

// Retrieved from the driver, this is the map of the hardware pins supported by
// the driver and their capabilities
var definedPins HardwarePinMap

var (
	gpioModule   GPIOModuleInterface
	analogModule AnalogModuleInterface
	shifter      *Shifter
)

// Used for the time functions when the driver has no timer, or there is no driver.
var timer = NewTimer("timer", MonotonicClock{})

// init() attempts to determine from the environment what the driver is. If the
// board is not recognised no driver is set.
func init() {
	determineDriver()
}

func determineDriver() {
	d := NewUdooDriver()
	if !d.MatchesHardwareConfig() {
		return
	}
	if e := SetDriver(d); e != nil {
		logger.Error().Err(e).Msg("Could not initialise driver")
	}
}

// Set the driver. Also calls Init on the driver, and picks up the modules and
// capabilities of the device. The previous driver, if any, is closed.
func SetDriver(d HardwareDriver) error {
	if driver != nil {
		driver.Close()
	}
	driver, definedPins = nil, nil
	gpioModule, analogModule, shifter = nil, nil, nil

	if e := d.Init(); e != nil {
		return e
	}
	driver = d
	definedPins = d.PinMap()

	modules := d.GetModules()
	if m, ok := modules["gpio"].(GPIOModuleInterface); ok {
		gpioModule = m
		shifter = NewShifter(m)
	}
	if m, ok := modules["analog"].(AnalogModuleInterface); ok {
		analogModule = m
	}
	if m, ok := modules["timer"].(*Timer); ok {
		timer = m
	}
	return nil
}

// Retrieve the current hardware driver.
func GetDriver() HardwareDriver {
	return driver
}

// Get a module by name from the current driver.
func GetModule(name string) (Module, error) {
	if driver == nil {
		return nil, ErrNoDriver
	}
	m := driver.GetModules()[name]
	if m == nil {
		return nil, fmt.Errorf("driver has no module called '%s'", name)
	}
	return m, nil
}

// Returns a map of the hardware pins. This will only work once the driver is
// set.
func GetDefinedPins() HardwarePinMap {
	return definedPins
}

// Returns a Pin given a name for the pin, e.g. "13", "D13", "A3" or "CANTX".
// Search is case insensitive.
func GetPin(name string) (Pin, error) {
	for pin, pinDef := range definedPins {
		for _, n := range pinDef.names {
			if strings.EqualFold(n, name) {
				return pin, nil
			}
		}
	}
	return Pin(0), fmt.Errorf("Could not find a pin called %s", name)
}

// DebugPinMap prints the pin map in pin order.
func DebugPinMap() {
	fmt.Println("HardwarePinMap:")
	for _, pin := range slices.Sorted(maps.Keys(definedPins)) {
		fmt.Printf("Pin %d: %s\n", pin, definedPins[pin].String())
	}
	fmt.Printf("\n")
}

func gpioWarn(fn string) {
	logger.Warn().Str("func", fn).Err(ErrNoDriver).Msg("no gpio module")
}

// Configures the specified pin to behave either as an input or an output.
func PinMode(pin Pin, mode PinIOMode) {
	if gpioModule == nil {
		gpioWarn("PinMode")
		return
	}
	gpioModule.PinMode(pin, mode)
}

// Write a HIGH or a LOW value to a pin.
func DigitalWrite(pin Pin, value int) {
	if gpioModule == nil {
		gpioWarn("DigitalWrite")
		return
	}
	gpioModule.DigitalWrite(pin, value)
}

// Reads the value from a specified digital pin, either HIGH or LOW, or one of
// the GPIO_* sentinels for invalid or unexported pins.
func DigitalRead(pin Pin) int {
	if gpioModule == nil {
		gpioWarn("DigitalRead")
		return GPIO_INVALID_PIN_ERROR
	}
	return gpioModule.DigitalRead(pin)
}

// Configures the reference voltage used for analog input.
func AnalogReference(mode AnalogReferenceMode) {
	if analogModule == nil {
		logger.Warn().Str("func", "AnalogReference").Err(ErrNoDriver).Msg("no analog module")
		return
	}
	analogModule.AnalogReference(mode)
}

func AnalogReadResolution(bits uint32) {
	if analogModule == nil {
		logger.Warn().Str("func", "AnalogReadResolution").Err(ErrNoDriver).Msg("no analog module")
		return
	}
	analogModule.AnalogReadResolution(bits)
}

func AnalogWriteResolution(bits uint32) {
	if analogModule == nil {
		logger.Warn().Str("func", "AnalogWriteResolution").Err(ErrNoDriver).Msg("no analog module")
		return
	}
	analogModule.AnalogWriteResolution(bits)
}

// Reads the value from the specified analog pin, scaled to the read resolution
// (10 bits unless changed). Returns NOT_ANALOG_PIN_ERROR for pins that are not
// analog.
func AnalogRead(pin Pin) uint32 {
	if analogModule == nil {
		logger.Warn().Str("func", "AnalogRead").Err(ErrNoDriver).Msg("no analog module")
		return NOT_ANALOG_PIN_ERROR
	}
	return analogModule.AnalogRead(pin)
}

// AnalogReadContext is AnalogRead that gives up waiting for the converter when
// ctx is done.
func AnalogReadContext(ctx context.Context, pin Pin) (uint32, error) {
	if analogModule == nil {
		return NOT_ANALOG_PIN_ERROR, ErrNoDriver
	}
	return analogModule.AnalogReadContext(ctx, pin)
}

// Shifts in a byte of data one bit at a time, starting from the most or least
// significant bit.
func ShiftIn(dataPin Pin, clockPin Pin, order BitShiftOrder) uint8 {
	if shifter == nil {
		gpioWarn("ShiftIn")
		return 0
	}
	return shifter.ShiftIn(dataPin, clockPin, order)
}

// Shifts a byte out to a clocked peer.
func ShiftOut(dataPin Pin, clockPin Pin, order BitShiftOrder, value uint8) {
	if shifter == nil {
		gpioWarn("ShiftOut")
		return
	}
	shifter.ShiftOut(dataPin, clockPin, order, value)
}

// Pauses the program for the amount of time (in milliseconds) specified as parameter.
func Delay(ms uint32) {
	timer.Delay(ms)
}

// Pauses the program for the amount of time (in microseconds) specified as parameter.
func DelayMicroseconds(us uint32) {
	timer.DelayMicroseconds(us)
}

// Returns the number of microseconds since the clock's epoch. This number will
// go back to zero after some time.
func Micros() uint32 {
	return timer.Micros()
}

// Returns Micros()/1000.
func Millis() uint32 {
	return timer.Millis()
}
