package wiring

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
)

// AnalogConfig holds the settings an Arduino sketch changes with analogReference, analogReadResolution
// and analogWriteResolution. Each AnalogModule owns one.
type AnalogConfig struct {
	ReadResolution   uint32
	WriteResolution  uint32
	Reference        AnalogReferenceMode
	ReferenceVoltage physic.ElectricPotential
}

// DefaultAnalogConfig returns 10 bit reads and 8 bit writes against the default 3.3V reference.
func DefaultAnalogConfig() AnalogConfig {
	return AnalogConfig{
		ReadResolution:   10,
		WriteResolution:  8,
		Reference:        AR_DEFAULT,
		ReferenceVoltage: 3300 * physic.MilliVolt,
	}
}

// Represents the definition of an analog pin: which converter input it is wired to and the selector used
// to enable that input.
type AnalogPinDef struct {
	pin           Pin
	analogChannel ADCChannel
	channelNumber ADCChannelNumber
}

// A map of analog pin definitions.
type AnalogPinDefMap map[Pin]*AnalogPinDef

// AnalogModule runs conversions on the ADC for pins in [first, last].
//
// The enable, start, poll, read, disable sequence is not atomic. Callers sharing a converter must take
// turns.
type AnalogModule struct {
	name string

	adc         ADCDriver
	definedPins AnalogPinDefMap
	first, last Pin

	config AnalogConfig
	log    zerolog.Logger
}

// NewAnalogModule creates a module for analog pins first to last inclusive.
func NewAnalogModule(name string, adc ADCDriver, first, last Pin) (result *AnalogModule) {
	result = &AnalogModule{name: name, adc: adc, first: first, last: last}
	result.definedPins = make(AnalogPinDefMap)
	result.config = DefaultAnalogConfig()
	result.log = moduleLogger(name)
	return result
}

// Set options of the module. Parameters we look for include:
// - "pins" - an object of type AnalogPinDefMap
// - "readResolution", "writeResolution" - bit widths
// - "reference" - an AnalogReferenceMode
// - "referenceVoltage" - a physic.ElectricPotential
// - "adc" - an ADCDriver
func (module *AnalogModule) SetOptions(options map[string]interface{}) error {
	if v := options["pins"]; v != nil {
		pins, ok := v.(AnalogPinDefMap)
		if !ok {
			return fmt.Errorf("Module '%s' option 'pins' is a %T, not an AnalogPinDefMap", module.GetName(), v)
		}
		module.definedPins = pins
	}
	if v := options["adc"]; v != nil {
		adc, ok := v.(ADCDriver)
		if !ok {
			return fmt.Errorf("Module '%s' option 'adc' is a %T, not an ADCDriver", module.GetName(), v)
		}
		module.adc = adc
	}
	if v := options["readResolution"]; v != nil {
		bits, e := optionUint(module.GetName(), "readResolution", v)
		if e != nil {
			return e
		}
		module.config.ReadResolution = bits
	}
	if v := options["writeResolution"]; v != nil {
		bits, e := optionUint(module.GetName(), "writeResolution", v)
		if e != nil {
			return e
		}
		module.config.WriteResolution = bits
	}
	if v := options["reference"]; v != nil {
		ref, ok := v.(AnalogReferenceMode)
		if !ok {
			return fmt.Errorf("Module '%s' option 'reference' is a %T, not an AnalogReferenceMode", module.GetName(), v)
		}
		module.config.Reference = ref
	}
	if v := options["referenceVoltage"]; v != nil {
		ev, ok := v.(physic.ElectricPotential)
		if !ok {
			return fmt.Errorf("Module '%s' option 'referenceVoltage' is a %T, not a physic.ElectricPotential", module.GetName(), v)
		}
		module.config.ReferenceVoltage = ev
	}
	return nil
}

func (module *AnalogModule) Enable() error {
	if module.adc == nil {
		return fmt.Errorf("Module '%s' has no ADC driver", module.GetName())
	}
	return nil
}

func (module *AnalogModule) Disable() error {
	if c, ok := module.adc.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (module *AnalogModule) GetName() string {
	return module.name
}

func (module *AnalogModule) SetLogger(l zerolog.Logger) {
	module.log = l
}

// Config returns a copy of the current settings.
func (module *AnalogModule) Config() AnalogConfig {
	return module.config
}

// AnalogReference records the reference mode. Applying it is up to the ADC driver.
func (module *AnalogModule) AnalogReference(mode AnalogReferenceMode) {
	module.config.Reference = mode
}

// AnalogReadResolution sets the width of values returned by AnalogRead.
func (module *AnalogModule) AnalogReadResolution(bits uint32) {
	module.config.ReadResolution = bits
}

// AnalogWriteResolution sets the width of values expected by analog writes.
func (module *AnalogModule) AnalogWriteResolution(bits uint32) {
	module.config.WriteResolution = bits
}

// AnalogRead returns a sample scaled to the read resolution. It returns NOT_ANALOG_PIN_ERROR for pins
// outside the analog range, and 0 for analog pins whose channel the converter cannot drive. It waits for
// the converter for as long as it takes.
func (module *AnalogModule) AnalogRead(pin Pin) uint32 {
	v, _ := module.AnalogReadContext(context.Background(), pin)
	return v
}

// AnalogReadContext is AnalogRead with a way out of the wait for the converter. If ctx is done before the
// sample is ready the channel is disabled and ctx.Err() returned. If the converter has an Err method, an
// error it reports after the conversion is logged and returned.
func (module *AnalogModule) AnalogReadContext(ctx context.Context, pin Pin) (uint32, error) {
	if pin < module.first || pin > module.last {
		module.log.Warn().Int("pin", int(pin)).Msgf("%d is not an Analog Pin", pin)
		return NOT_ANALOG_PIN_ERROR, fmt.Errorf("pin %d: %w", pin, ErrNotAnalogPin)
	}

	pd := module.definedPins[pin]
	if pd == nil || !pd.analogChannel.Supported() {
		return 0, nil
	}

	module.adc.EnableChannel(pd.channelNumber)
	module.adc.Start()

	done := ctx.Done()
	for !module.adc.DataReady() {
		if done == nil {
			continue
		}
		select {
		case <-done:
			module.adc.DisableChannel(pd.channelNumber)
			return 0, ctx.Err()
		default:
		}
	}

	value := module.adc.LatestValue()
	value = MapResolution(value, module.adc.Resolution(), module.config.ReadResolution)

	module.adc.DisableChannel(pd.channelNumber)

	// converters that can fail latch a 0 sample and keep the error for us to collect
	if r, ok := module.adc.(interface{ Err() error }); ok {
		if e := r.Err(); e != nil {
			module.log.Error().Err(e).Int("pin", int(pin)).Stringer("channel", pd.analogChannel).Msg("conversion failed")
			return 0, fmt.Errorf("pin %d: %w", pin, e)
		}
	}
	return value, nil
}

// ReadVoltage reads a pin and scales the sample against the reference voltage.
func (module *AnalogModule) ReadVoltage(ctx context.Context, pin Pin) (physic.ElectricPotential, error) {
	v, e := module.AnalogReadContext(ctx, pin)
	if e != nil {
		return 0, e
	}
	return module.Voltage(v)
}

// Voltage scales a sample already read at the current read resolution against the reference voltage.
func (module *AnalogModule) Voltage(sample uint32) (physic.ElectricPotential, error) {
	bits := module.config.ReadResolution
	if bits == 0 || bits > 32 {
		return 0, fmt.Errorf("Module '%s' cannot scale a %d bit sample", module.GetName(), bits)
	}
	fullScale := float64(uint64(1)<<bits - 1)
	return physic.ElectricPotential(float64(module.config.ReferenceVoltage) * float64(sample) / fullScale), nil
}
