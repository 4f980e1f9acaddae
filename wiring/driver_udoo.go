package wiring

// A driver for the UDOO Quad/Dual boards. Digital pins 0-53 are i.MX6 GPIO lines reached through sysfs;
// A0-A11, DAC0, DAC1, CANRX and CANTX are the analog capable header pins of the SAM3X side.
//
// Known issues:
// - pins A0..CANTX have no Linux GPIO line, so PinMode on them fails in the line driver.
// - no support for PWM, serial, SPI or I2C.

import (
	"errors"
	"fmt"
	"strings"
)

// Logical numbers of the analog capable pins. A0 to CANTX is the analog range.
const (
	A0 Pin = 54 + iota
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	A8
	A9
	A10
	A11
	DAC0
	DAC1
	CANRX
	CANTX
)

// Native sample width of the SAM3X converter.
const UdooADCResolution = 12

// UdooPinConfig is a row of the board table.
type UdooPinConfig struct {
	// A list of names that this pin will be known by. They are effectively synonyms.
	names []string

	capabilities CapabilitySet

	// kernel GPIO number used by the sysfs line driver, or -1 if the pin has no Linux GPIO line.
	gpioLogical int

	// converter input and its selector, for pins in the analog range.
	analogChannel ADCChannel
	channelNumber ADCChannelNumber
}

type UdooDriver struct {
	// all pins understood by the driver, indexed by logical pin number
	pinConfigs []*UdooPinConfig

	lineDriver LineDriver
	adc        ADCDriver
	clock      Clock

	// a map of module names to module objects, created at initialisation
	modules map[string]Module
}

func NewUdooDriver() *UdooDriver {
	return &UdooDriver{}
}

// SetLineDriver replaces the sysfs line driver. Must be called before Init.
func (d *UdooDriver) SetLineDriver(l LineDriver) {
	d.lineDriver = l
}

// SetADCDriver replaces the IIO converter driver. Must be called before Init.
func (d *UdooDriver) SetADCDriver(a ADCDriver) {
	d.adc = a
}

// SetClock replaces the monotonic clock. Must be called before Init.
func (d *UdooDriver) SetClock(c Clock) {
	d.clock = c
}

// Examine the hardware environment and determine if this driver will handle it. The UDOO kernels
// name the board in the Hardware line of /proc/cpuinfo.
func (d *UdooDriver) MatchesHardwareConfig() bool {
	return strings.Contains(strings.ToLower(CpuInfo("Hardware")), "udoo")
}

func (d *UdooDriver) Init() error {
	d.createPinData()
	return d.initialiseModules()
}

func (d *UdooDriver) createPinData() {
	digital := CapabilitySet{CAP_INPUT, CAP_OUTPUT}
	analog := CapabilitySet{CAP_ANALOG_IN}
	dac := CapabilitySet{CAP_ANALOG_OUT}
	can := CapabilitySet{CAP_ANALOG_IN, CAP_CAN}

	d.pinConfigs = []*UdooPinConfig{
		{[]string{"0", "D0"}, digital, 116, NO_ADC, 0},   // 0
		{[]string{"1", "D1"}, digital, 112, NO_ADC, 0},   // 1
		{[]string{"2", "D2"}, digital, 20, NO_ADC, 0},    // 2
		{[]string{"3", "D3"}, digital, 16, NO_ADC, 0},    // 3
		{[]string{"4", "D4"}, digital, 17, NO_ADC, 0},    // 4
		{[]string{"5", "D5"}, digital, 18, NO_ADC, 0},    // 5
		{[]string{"6", "D6"}, digital, 41, NO_ADC, 0},    // 6
		{[]string{"7", "D7"}, digital, 42, NO_ADC, 0},    // 7
		{[]string{"8", "D8"}, digital, 21, NO_ADC, 0},    // 8
		{[]string{"9", "D9"}, digital, 19, NO_ADC, 0},    // 9
		{[]string{"10", "D10"}, digital, 1, NO_ADC, 0},   // 10
		{[]string{"11", "D11"}, digital, 9, NO_ADC, 0},   // 11
		{[]string{"12", "D12"}, digital, 3, NO_ADC, 0},   // 12
		{[]string{"13", "D13"}, digital, 40, NO_ADC, 0},  // 13
		{[]string{"14", "D14"}, digital, 150, NO_ADC, 0}, // 14
		{[]string{"15", "D15"}, digital, 162, NO_ADC, 0}, // 15
		{[]string{"16", "D16"}, digital, 160, NO_ADC, 0}, // 16
		{[]string{"17", "D17"}, digital, 161, NO_ADC, 0}, // 17
		{[]string{"18", "D18"}, digital, 158, NO_ADC, 0}, // 18
		{[]string{"19", "D19"}, digital, 159, NO_ADC, 0}, // 19
		{[]string{"20", "D20"}, digital, 92, NO_ADC, 0},  // 20
		{[]string{"21", "D21"}, digital, 85, NO_ADC, 0},  // 21
		{[]string{"22", "D22"}, digital, 123, NO_ADC, 0}, // 22
		{[]string{"23", "D23"}, digital, 124, NO_ADC, 0}, // 23
		{[]string{"24", "D24"}, digital, 125, NO_ADC, 0}, // 24
		{[]string{"25", "D25"}, digital, 126, NO_ADC, 0}, // 25
		{[]string{"26", "D26"}, digital, 127, NO_ADC, 0}, // 26
		{[]string{"27", "D27"}, digital, 133, NO_ADC, 0}, // 27
		{[]string{"28", "D28"}, digital, 134, NO_ADC, 0}, // 28
		{[]string{"29", "D29"}, digital, 135, NO_ADC, 0}, // 29
		{[]string{"30", "D30"}, digital, 136, NO_ADC, 0}, // 30
		{[]string{"31", "D31"}, digital, 137, NO_ADC, 0}, // 31
		{[]string{"32", "D32"}, digital, 138, NO_ADC, 0}, // 32
		{[]string{"33", "D33"}, digital, 139, NO_ADC, 0}, // 33
		{[]string{"34", "D34"}, digital, 140, NO_ADC, 0}, // 34
		{[]string{"35", "D35"}, digital, 141, NO_ADC, 0}, // 35
		{[]string{"36", "D36"}, digital, 142, NO_ADC, 0}, // 36
		{[]string{"37", "D37"}, digital, 143, NO_ADC, 0}, // 37
		{[]string{"38", "D38"}, digital, 54, NO_ADC, 0},  // 38
		{[]string{"39", "D39"}, digital, 205, NO_ADC, 0}, // 39
		{[]string{"40", "D40"}, digital, 32, NO_ADC, 0},  // 40
		{[]string{"41", "D41"}, digital, 35, NO_ADC, 0},  // 41
		{[]string{"42", "D42"}, digital, 34, NO_ADC, 0},  // 42
		{[]string{"43", "D43"}, digital, 33, NO_ADC, 0},  // 43
		{[]string{"44", "D44"}, digital, 101, NO_ADC, 0}, // 44
		{[]string{"45", "D45"}, digital, 144, NO_ADC, 0}, // 45
		{[]string{"46", "D46"}, digital, 145, NO_ADC, 0}, // 46
		{[]string{"47", "D47"}, digital, 89, NO_ADC, 0},  // 47
		{[]string{"48", "D48"}, digital, 105, NO_ADC, 0}, // 48
		{[]string{"49", "D49"}, digital, 104, NO_ADC, 0}, // 49
		{[]string{"50", "D50"}, digital, 57, NO_ADC, 0},  // 50
		{[]string{"51", "D51"}, digital, 56, NO_ADC, 0},  // 51
		{[]string{"52", "D52"}, digital, 55, NO_ADC, 0},  // 52
		{[]string{"53", "D53"}, digital, 88, NO_ADC, 0},  // 53
		{[]string{"A0", "54"}, analog, -1, ADC7, 7},      // 54
		{[]string{"A1", "55"}, analog, -1, ADC6, 6},      // 55
		{[]string{"A2", "56"}, analog, -1, ADC5, 5},      // 56
		{[]string{"A3", "57"}, analog, -1, ADC4, 4},      // 57
		{[]string{"A4", "58"}, analog, -1, ADC3, 3},      // 58
		{[]string{"A5", "59"}, analog, -1, ADC2, 2},      // 59
		{[]string{"A6", "60"}, analog, -1, ADC1, 1},      // 60
		{[]string{"A7", "61"}, analog, -1, ADC0, 0},      // 61
		{[]string{"A8", "62"}, analog, -1, ADC10, 10},    // 62
		{[]string{"A9", "63"}, analog, -1, ADC11, 11},    // 63
		{[]string{"A10", "64"}, analog, -1, ADC12, 12},   // 64
		{[]string{"A11", "65"}, analog, -1, ADC13, 13},   // 65
		{[]string{"DAC0", "66"}, dac, -1, DA0, 0},        // 66
		{[]string{"DAC1", "67"}, dac, -1, DA1, 1},        // 67
		{[]string{"CANRX", "68"}, can, -1, ADC14, 14},    // 68
		{[]string{"CANTX", "69"}, can, -1, ADC15, 15},    // 69
	}
}

func (d *UdooDriver) initialiseModules() error {
	d.modules = make(map[string]Module)

	if d.lineDriver == nil {
		d.lineDriver = NewSysfsLineDriver(d.gpioLines())
	}
	if d.adc == nil {
		path, e := FindIIODevice()
		if e != nil {
			logger.Warn().Err(e).Msg("no IIO device found, analog reads will return 0")
			path = strings.TrimSuffix(defaultIIODevicesGlob, "*") + "0"
		}
		d.adc = NewIIOADCDriver(path, UdooADCResolution)
	}
	if d.clock == nil {
		d.clock = MonotonicClock{}
	}

	gpioMod := NewGPIOModule("gpio", d.lineDriver)

	analogMod := NewAnalogModule("analog", d.adc, A0, CANTX)
	e := analogMod.SetOptions(d.getAnalogOptions())
	if e != nil {
		return e
	}

	timerMod := NewTimer("timer", d.clock)

	d.modules["gpio"] = gpioMod
	d.modules["analog"] = analogMod
	d.modules["timer"] = timerMod

	for _, m := range d.modules {
		if e := m.Enable(); e != nil {
			return fmt.Errorf("enabling module '%s': %w", m.GetName(), e)
		}
	}
	return nil
}

// Kernel GPIO numbers of the pins that have one.
func (d *UdooDriver) gpioLines() map[Pin]int {
	lines := make(map[Pin]int)
	for i, cfg := range d.pinConfigs {
		if cfg.gpioLogical >= 0 {
			lines[Pin(i)] = cfg.gpioLogical
		}
	}
	return lines
}

// Get options for analog: the descriptor of each pin in the analog range.
func (d *UdooDriver) getAnalogOptions() map[string]interface{} {
	pins := make(AnalogPinDefMap)
	for i := A0; i <= CANTX && int(i) < len(d.pinConfigs); i++ {
		cfg := d.pinConfigs[i]
		pins[i] = &AnalogPinDef{pin: i, analogChannel: cfg.analogChannel, channelNumber: cfg.channelNumber}
	}
	return map[string]interface{}{
		"pins": pins,
	}
}

func (d *UdooDriver) GetModules() map[string]Module {
	return d.modules
}

func (d *UdooDriver) PinMap() (pinMap HardwarePinMap) {
	pinMap = make(HardwarePinMap)
	for i, cfg := range d.pinConfigs {
		pinMap.add(Pin(i), cfg.names, cfg.capabilities)
	}
	return
}

// Close disables every module, which releases exported lines and open converter files.
func (d *UdooDriver) Close() {
	var errs []error
	for _, m := range d.modules {
		if e := m.Disable(); e != nil {
			errs = append(errs, e)
		}
	}
	if e := errors.Join(errs...); e != nil {
		logger.Error().Err(e).Msg("closing udoo driver")
	}
}
