package wiring

// Tests for the package level functions. Each test sets a new UdooDriver backed by mocks so it starts
// from the same state.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setMockDriver(t *testing.T) (*MockLineDriver, *MockADC) {
	t.Helper()
	line := &MockLineDriver{}
	adc := &MockADC{Bits: UdooADCResolution, Values: map[ADCChannelNumber]uint32{7: 0xFFF, 4: 0x400}}
	d := NewUdooDriver()
	d.SetLineDriver(line)
	d.SetADCDriver(adc)
	d.SetClock(fixedClock(3, 5000))
	if e := SetDriver(d); e != nil {
		t.Fatalf("SetDriver returned %s", e)
	}
	return line, adc
}

// Get the driver's pin map and check for the pins in it. Tests that the
// consumer can determine pin capabilities
func TestPinMap(t *testing.T) {
	setMockDriver(t)

	m := GetDefinedPins()

	p0 := m.GetPin(0)
	if p0 == nil {
		t.Fatal("Pin 0 is expected to be defined")
	}
	if !p0.HasCapability(CAP_OUTPUT) || p0.HasCapability(CAP_ANALOG_IN) {
		t.Errorf("Pin 0 has capabilities %s", p0.capabilities)
	}
	if a0 := m.GetPin(A0); a0 == nil || !a0.HasCapability(CAP_ANALOG_IN) {
		t.Error("A0 should be an analog input")
	}
	if m.GetPin(99) != nil {
		t.Error("Pin 99 should not exist")
	}
	if len(m) != int(CANTX)+1 {
		t.Errorf("pin map has %d pins, want %d", len(m), CANTX+1)
	}
}

func TestGetPin(t *testing.T) {
	setMockDriver(t)

	tests := map[string]Pin{"13": 13, "d13": 13, "A0": A0, "a3": A3, "CANTX": CANTX, "DAC1": DAC1, "66": DAC0}
	for name, want := range tests {
		p, e := GetPin(name)
		if e != nil {
			t.Errorf("GetPin(%q) returned %s", name, e)
		}
		if p != want {
			t.Errorf("GetPin(%q) = %d, want %d", name, p, want)
		}
	}

	if _, e := GetPin("P99"); e == nil {
		t.Error("GetPin('P99') should have returned an error but didn't")
	}
}

func TestGetModule(t *testing.T) {
	setMockDriver(t)

	for _, name := range []string{"gpio", "analog", "timer"} {
		m, e := GetModule(name)
		if e != nil || m == nil {
			t.Errorf("GetModule(%q) = %v, %v", name, m, e)
		}
	}
	if _, e := GetModule("pwm"); e == nil {
		t.Error("GetModule('pwm') should fail")
	}
}

func TestPackageDigital(t *testing.T) {
	line, _ := setMockDriver(t)

	PinMode(13, OUTPUT)
	DigitalWrite(13, HIGH)
	if line.MockGetPinValue(13) != HIGH {
		t.Error("DigitalWrite should reach the line driver")
	}

	PinMode(2, INPUT)
	line.MockSetPinValue(2, HIGH)
	if v := DigitalRead(2); v != HIGH {
		t.Errorf("DigitalRead = %d, want HIGH", v)
	}

	PinMode(3, PinIOMode(5))
	if line.MockCount("Export(3)") != 0 {
		t.Error("an invalid mode must not export the pin")
	}
}

func TestPackageAnalog(t *testing.T) {
	_, adc := setMockDriver(t)

	// A0 is on ADC7, A3 on ADC4
	if v := AnalogRead(A0); v != 0x3FF {
		t.Errorf("AnalogRead(A0) = %#x, want 0x3ff", v)
	}
	AnalogReadResolution(12)
	if v := AnalogRead(A3); v != 0x400 {
		t.Errorf("AnalogRead(A3) at 12 bits = %#x, want 0x400", v)
	}
	AnalogReadResolution(10)

	calls := adc.Calls()
	if v := AnalogRead(13); v != NOT_ANALOG_PIN_ERROR {
		t.Errorf("AnalogRead(13) = %#x, want NOT_ANALOG_PIN_ERROR", v)
	}
	// A10 is ADC12, DAC0 has no converter input, CANRX is ADC14
	for _, pin := range []Pin{A10, A11, DAC0, DAC1, CANRX, CANTX} {
		if v := AnalogRead(pin); v != 0 {
			t.Errorf("AnalogRead(%d) = %d, want 0", pin, v)
		}
	}
	if adc.Calls() != calls {
		t.Error("reads of non analog or unsupported pins should not touch the converter")
	}

	AnalogReference(AR_EXTERNAL)
	AnalogWriteResolution(12)
	m, _ := GetModule("analog")
	cfg := m.(*AnalogModule).Config()
	if cfg.Reference != AR_EXTERNAL || cfg.WriteResolution != 12 {
		t.Errorf("config is %+v", cfg)
	}

	v, e := AnalogReadContext(context.Background(), A0)
	if e != nil || v != 0x3FF {
		t.Errorf("AnalogReadContext(A0) = %#x, %v", v, e)
	}
}

// Every analog pin in the board table resolves to the converter input the SAM3X wiring gives it.
func TestUdooAnalogTable(t *testing.T) {
	d := NewUdooDriver()
	d.createPinData()
	pins := d.getAnalogOptions()["pins"].(AnalogPinDefMap)

	want := map[Pin]ADCChannel{
		A0: ADC7, A1: ADC6, A2: ADC5, A3: ADC4, A4: ADC3, A5: ADC2, A6: ADC1, A7: ADC0,
		A8: ADC10, A9: ADC11, A10: ADC12, A11: ADC13, DAC0: DA0, DAC1: DA1, CANRX: ADC14, CANTX: ADC15,
	}
	if len(pins) != len(want) {
		t.Errorf("%d analog pins, want %d", len(pins), len(want))
	}
	for pin, ch := range want {
		if pd := pins[pin]; pd == nil || pd.analogChannel != ch {
			t.Errorf("pin %d: got %v, want %s", pin, pd, ch)
		}
	}
	if _, ok := d.gpioLines()[A0]; ok {
		t.Error("analog pins have no Linux GPIO line")
	}
	if g := d.gpioLines()[13]; g != 40 {
		t.Errorf("pin 13 is gpio%d, want gpio40", g)
	}
}

func TestPackageShift(t *testing.T) {
	line, _ := setMockDriver(t)
	PinMode(testDataPin, OUTPUT)
	PinMode(testClockPin, OUTPUT)

	var bits []int
	playback := false
	line.OnSetValue = func(pin Pin, value int) {
		if pin != testClockPin || value != HIGH {
			return
		}
		if !playback {
			bits = append(bits, line.MockGetPinValue(testDataPin))
		} else if len(bits) > 0 {
			line.MockSetPinValue(testDataPin, bits[0])
			bits = bits[1:]
		}
	}

	ShiftOut(testDataPin, testClockPin, MSBFIRST, 0b10110010)
	playback = true
	if v := ShiftIn(testDataPin, testClockPin, MSBFIRST); v != 0b10110010 {
		t.Errorf("ShiftIn = %#08b, want 0b10110010", v)
	}
}

func TestPackageTime(t *testing.T) {
	setMockDriver(t)

	if v := Micros(); v != 3000005 {
		t.Errorf("Micros() = %d, want 3000005", v)
	}
	if v := Millis(); v != 3000 {
		t.Errorf("Millis() = %d, want 3000", v)
	}
	Delay(1)
	DelayMicroseconds(1)
}

func TestSetDriverFailure(t *testing.T) {
	setMockDriver(t)

	if e := SetDriver(failingDriver{NewUdooDriver()}); !errors.Is(e, errInitFailed) {
		t.Fatalf("SetDriver returned %v", e)
	}
	if GetDriver() != nil {
		t.Error("a driver that fails Init must not be installed")
	}
	if v := DigitalRead(0); v != GPIO_INVALID_PIN_ERROR {
		t.Errorf("DigitalRead without a driver = %d", v)
	}
	if v := AnalogRead(A0); v != NOT_ANALOG_PIN_ERROR {
		t.Errorf("AnalogRead without a driver = %#x", v)
	}
	if _, e := GetModule("gpio"); !errors.Is(e, ErrNoDriver) {
		t.Errorf("GetModule without a driver returned %v", e)
	}
}

var errInitFailed = errors.New("init failed")

type failingDriver struct {
	*UdooDriver
}

func (failingDriver) Init() error {
	return errInitFailed
}

func TestCpuInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpuinfo")
	content := "processor\t: 0\nmodel name\t: ARMv7 Processor rev 10 (v7l)\n\n" +
		"processor\t: 1\nmodel name\t: ARMv7 Processor rev 10 (v7l)\n\n" +
		"Hardware\t: SECO i.Mx6 UDOO Board\nRevision\t: 63012\n"
	if e := os.WriteFile(path, []byte(content), 0666); e != nil {
		t.Fatal(e)
	}

	info := loadCpuInfo(path)
	if info["processor"] != "1" {
		t.Errorf("processor = %q, want the last one seen", info["processor"])
	}
	if info["Hardware"] != "SECO i.Mx6 UDOO Board" {
		t.Errorf("Hardware = %q", info["Hardware"])
	}

	saved := cpuInfo
	defer func() { cpuInfo = saved }()
	cpuInfo = info
	if !NewUdooDriver().MatchesHardwareConfig() {
		t.Error("driver should match a UDOO cpuinfo")
	}
	cpuInfo = map[string]string{"Hardware": "BCM2835"}
	if NewUdooDriver().MatchesHardwareConfig() {
		t.Error("driver should not match a Raspberry Pi")
	}
}
