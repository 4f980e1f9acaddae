package wiring

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestGPIO(t *testing.T) (*GPIOModule, *MockLineDriver, *bytes.Buffer) {
	t.Helper()
	line := &MockLineDriver{}
	gpio := NewGPIOModule("gpio", line)
	var buf bytes.Buffer
	gpio.SetLogger(zerolog.New(&buf))
	if e := gpio.Enable(); e != nil {
		t.Fatalf("Enable returned %s", e)
	}
	return gpio, line, &buf
}

func TestPinMode(t *testing.T) {
	gpio, line, _ := newTestGPIO(t)

	gpio.PinMode(0, INPUT)
	if !line.MockExported(0) {
		t.Error("PinMode should export the line")
	}
	m, ok := line.MockGetPinMode(0)
	if !ok || m != INPUT {
		t.Error("Pin set to read mode is not set in the driver")
	}

	// Change pin 0 to output. The new pin mode takes effect.
	gpio.PinMode(0, OUTPUT)
	m, _ = line.MockGetPinMode(0)
	if m != OUTPUT {
		t.Error("Pin changed from read to write mode is not set in the driver")
	}

	calls := line.MockCalls()
	want := []string{"Export(0)", "SetDirection(0, INPUT)", "Export(0)", "SetDirection(0, OUTPUT)"}
	if strings.Join(calls, ";") != strings.Join(want, ";") {
		t.Errorf("driver calls were %v, want %v", calls, want)
	}
}

func TestPinModeRejectsUnknownMode(t *testing.T) {
	for _, mode := range []PinIOMode{-1, 2, 3, 99} {
		gpio, line, buf := newTestGPIO(t)

		gpio.PinMode(4, mode)
		if n := len(line.MockCalls()); n != 0 {
			t.Errorf("PinMode(4, %d) made %d driver calls, want none", mode, n)
		}
		if !strings.Contains(buf.String(), "Mode can be either INPUT or OUTPUT") {
			t.Errorf("PinMode(4, %d) should log a diagnostic, got %q", mode, buf.String())
		}
	}
}

func TestPinModeLogsDriverFailure(t *testing.T) {
	gpio, line, buf := newTestGPIO(t)
	line.ExportErrors = map[Pin]error{5: errors.New("device busy")}

	gpio.PinMode(5, OUTPUT)
	if !strings.Contains(buf.String(), "device busy") {
		t.Errorf("export failure should be logged, got %q", buf.String())
	}
	// direction is still attempted, as the line may already be exported
	if line.MockCount("SetDirection(5, OUTPUT)") != 1 {
		t.Error("SetDirection should be called after a failed export")
	}
}

func TestDigitalWrite(t *testing.T) {
	gpio, line, _ := newTestGPIO(t)

	gpio.PinMode(0, OUTPUT)
	gpio.DigitalWrite(0, LOW)
	if v := line.MockGetPinValue(0); v != LOW {
		t.Error("After writing LOW to pin, driver should know this value")
	}

	gpio.DigitalWrite(0, HIGH)
	if v := line.MockGetPinValue(0); v != HIGH {
		t.Error("After writing HIGH to pin, driver should know this value")
	}

	// no validation: writing to a pin that was never configured still reaches the driver
	gpio.DigitalWrite(9, HIGH)
	if line.MockCount("SetValue(9, 1)") != 1 {
		t.Error("DigitalWrite should forward unconditionally")
	}
}

func TestDigitalRead(t *testing.T) {
	gpio, line, _ := newTestGPIO(t)

	gpio.PinMode(0, INPUT)
	for _, value := range []int{LOW, HIGH, LOW} {
		line.MockSetPinValue(0, value)
		if v := gpio.DigitalRead(0); v != value {
			t.Errorf("After setting %d in driver, DigitalRead returned %d", value, v)
		}
	}
}

func TestDigitalReadSentinels(t *testing.T) {
	gpio, line, _ := newTestGPIO(t)
	line.Pins = map[Pin]bool{1: true}

	v := gpio.DigitalRead(1)
	if v != GPIO_UNEXPORTED_PIN_ERROR {
		t.Errorf("reading an unexported pin returned %d, want GPIO_UNEXPORTED_PIN_ERROR", v)
	}
	if !errors.Is(SentinelError(v), ErrUnexportedPin) {
		t.Errorf("SentinelError(%d) = %v", v, SentinelError(v))
	}

	v = gpio.DigitalRead(77)
	if v != GPIO_INVALID_PIN_ERROR {
		t.Errorf("reading an unknown pin returned %d, want GPIO_INVALID_PIN_ERROR", v)
	}
	if !IsSentinel(v) || IsSentinel(LOW) || IsSentinel(HIGH) {
		t.Error("IsSentinel must separate sentinels from logic levels")
	}
}

func TestGPIOSetOptions(t *testing.T) {
	gpio := NewGPIOModule("gpio", nil)
	if e := gpio.Enable(); e == nil {
		t.Error("Enable without a driver should fail")
	}
	if e := gpio.SetOptions(map[string]interface{}{"driver": 3}); e == nil {
		t.Error("SetOptions should reject a driver of the wrong type")
	}
	line := &MockLineDriver{}
	if e := gpio.SetOptions(map[string]interface{}{"driver": line}); e != nil {
		t.Fatalf("SetOptions returned %s", e)
	}
	if gpio.Driver() != line {
		t.Error("SetOptions should install the driver")
	}
}
