// Defines generic types and behaviours for modules. A board driver creates one module per peripheral it exposes.

package wiring

import (
	"context"
	"fmt"
)

// Generic interface type for all modules.
type Module interface {
	// Set parameters require to initialise the module. Generally should be called before Enable() is called,
	// but this may depend on the module.
	SetOptions(map[string]interface{}) error

	// enables the module for use.
	Enable() error

	// disables module and releases pins.
	Disable() error

	// Return the module name so it can be used for error reporting
	GetName() string
}

// DigitalIO is the part of a GPIO module that clocked protocols need.
type DigitalIO interface {
	DigitalWrite(pin Pin, value int)
	DigitalRead(pin Pin) int
}

// GPIO is a DigitalIO that can also configure pin direction.
type GPIO interface {
	DigitalIO
	PinMode(pin Pin, mode PinIOMode)
}

type GPIOModuleInterface interface {
	Module
	GPIO
}

type AnalogModuleInterface interface {
	Module

	AnalogRead(pin Pin) uint32
	AnalogReadContext(ctx context.Context, pin Pin) (uint32, error)
	AnalogReference(mode AnalogReferenceMode)
	AnalogReadResolution(bits uint32)
	AnalogWriteResolution(bits uint32)
}

// Options are passed around as untyped maps. These helpers pull typed values out of them.

func optionUint(module string, key string, v interface{}) (uint32, error) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, fmt.Errorf("Module '%s' option '%s' must not be negative, got %d", module, key, n)
		}
		return uint32(n), nil
	case uint:
		return uint32(n), nil
	case uint32:
		return n, nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("Module '%s' option '%s' must not be negative, got %d", module, key, n)
		}
		return uint32(n), nil
	}
	return 0, fmt.Errorf("Module '%s' option '%s' has unsupported type %T", module, key, v)
}
