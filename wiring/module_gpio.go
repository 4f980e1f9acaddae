// A digital I/O module. It validates requests and hands them to a LineDriver, which does the actual work of
// exporting and driving a GPIO line.

package wiring

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LineDriver exports, configures, reads and writes raw GPIO lines. GetValue returns LOW, HIGH or one of the
// GPIO_* sentinels.
type LineDriver interface {
	Export(pin Pin) error
	SetDirection(pin Pin, mode PinIOMode) error
	GetValue(pin Pin) int
	SetValue(pin Pin, value int)
}

type GPIOModule struct {
	name   string
	driver LineDriver
	log    zerolog.Logger
}

func NewGPIOModule(name string, driver LineDriver) (result *GPIOModule) {
	result = &GPIOModule{name: name, driver: driver}
	result.log = moduleLogger(name)
	return result
}

// Set options of the module. Parameters we look for include:
// - "driver" - a LineDriver that replaces the one given to NewGPIOModule
func (module *GPIOModule) SetOptions(options map[string]interface{}) error {
	v := options["driver"]
	if v == nil {
		return nil
	}
	d, ok := v.(LineDriver)
	if !ok {
		return fmt.Errorf("Module '%s' option 'driver' is a %T, not a LineDriver", module.GetName(), v)
	}
	module.driver = d
	return nil
}

// enable GPIO module. It doesn't allocate any pins immediately.
func (module *GPIOModule) Enable() error {
	if module.driver == nil {
		return fmt.Errorf("Module '%s' has no line driver", module.GetName())
	}
	return nil
}

// disables module and releases any lines the driver holds.
func (module *GPIOModule) Disable() error {
	if c, ok := module.driver.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (module *GPIOModule) GetName() string {
	return module.name
}

func (module *GPIOModule) SetLogger(l zerolog.Logger) {
	module.log = l
}

// Driver returns the line driver the module delegates to.
func (module *GPIOModule) Driver() LineDriver {
	return module.driver
}

// PinMode configures the pin as an input or an output. Anything other than INPUT or OUTPUT is logged and
// ignored. Driver failures are logged too; there is nothing to return them through.
func (module *GPIOModule) PinMode(pin Pin, mode PinIOMode) {
	if mode != INPUT && mode != OUTPUT {
		module.log.Warn().Int("pin", int(pin)).Int("mode", int(mode)).Msg("Mode can be either INPUT or OUTPUT")
		return
	}

	if e := module.driver.Export(pin); e != nil {
		module.log.Error().Err(e).Int("pin", int(pin)).Msg("export failed")
	}
	if e := module.driver.SetDirection(pin, mode); e != nil {
		module.log.Error().Err(e).Int("pin", int(pin)).Stringer("mode", mode).Msg("setting direction failed")
	}
}

// Write HIGH or LOW to a pin. No checks are made.
func (module *GPIOModule) DigitalWrite(pin Pin, value int) {
	module.driver.SetValue(pin, value)
}

// Read a pin. The result is HIGH, LOW or a GPIO_* sentinel straight from the driver.
func (module *GPIOModule) DigitalRead(pin Pin) int {
	return module.driver.GetValue(pin)
}
