package wiring

import (
	"errors"
)

// Sentinel values returned in place of data by the Arduino style functions.
// The numbers are part of the API; consumers compare against them directly.
const (
	GPIO_INVALID_PIN_ERROR    = -2
	GPIO_UNEXPORTED_PIN_ERROR = -3
	GPIO_READ_ERROR           = -4

	NOT_ANALOG_PIN_ERROR uint32 = 0xFFFFFFFF
	CLOCK_TIME_ERROR     uint32 = 0xFFFFFFFF
)

var (
	ErrInvalidPin    = errors.New("invalid pin")
	ErrUnexportedPin = errors.New("pin is not exported")
	ErrReadFailed    = errors.New("pin value could not be read")
	ErrNotAnalogPin  = errors.New("not an analog pin")
	ErrClockTime     = errors.New("clock time error")
	ErrNoDriver      = errors.New("wiring has no configured driver")
)

// IsSentinel reports whether a value returned by DigitalRead is an error code
// rather than a logic level.
func IsSentinel(v int) bool {
	return v < 0
}

// SentinelError maps a DigitalRead result to the matching error, or nil if v
// is a logic level.
func SentinelError(v int) error {
	switch v {
	case GPIO_INVALID_PIN_ERROR:
		return ErrInvalidPin
	case GPIO_UNEXPORTED_PIN_ERROR:
		return ErrUnexportedPin
	case GPIO_READ_ERROR:
		return ErrReadFailed
	}
	if IsSentinel(v) {
		return ErrReadFailed
	}
	return nil
}
