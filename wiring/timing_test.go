package wiring

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fixedClock(sec, nsec int64) Clock {
	return ClockFunc(func() (int64, int64, error) { return sec, nsec, nil })
}

func TestMicros(t *testing.T) {
	timer := NewTimer("timer", fixedClock(12, 345678901))
	if v := timer.Micros(); v != 12345678 {
		t.Errorf("Micros() = %d, want 12345678", v)
	}
	if v := timer.Millis(); v != 12345 {
		t.Errorf("Millis() = %d, want 12345", v)
	}
}

func TestMicrosWraps(t *testing.T) {
	// 4295 seconds is just past 2^32 microseconds
	timer := NewTimer("timer", fixedClock(4295, 0))
	want := uint32(uint64(4295000000) - 1<<32)
	if v := timer.Micros(); v != want {
		t.Errorf("Micros() = %d, want %d", v, want)
	}
}

func TestMicrosClockError(t *testing.T) {
	timer := NewTimer("timer", ClockFunc(func() (int64, int64, error) {
		return 0, 0, errors.New("clock_gettime: EINVAL")
	}))
	var buf bytes.Buffer
	timer.SetLogger(zerolog.New(&buf))

	if v := timer.Micros(); v != CLOCK_TIME_ERROR {
		t.Errorf("Micros() = %d, want CLOCK_TIME_ERROR", v)
	}
	if v := timer.Millis(); v != CLOCK_TIME_ERROR {
		t.Errorf("Millis() = %d, want CLOCK_TIME_ERROR", v)
	}
	if !strings.Contains(buf.String(), "Clock Time error") {
		t.Errorf("clock failure should be logged, got %q", buf.String())
	}
}

// 4294.967295 seconds is 0xFFFFFFFF microseconds, a valid reading with the same bits as CLOCK_TIME_ERROR.
func TestSampleAtAllOnes(t *testing.T) {
	timer := NewTimer("timer", fixedClock(4294, 967295000))
	us, ms := timer.Sample()
	if us != 0xFFFFFFFF {
		t.Fatalf("micros = %#x, want 0xffffffff", us)
	}
	if ms != us/1000 {
		t.Errorf("millis = %d, want %d", ms, us/1000)
	}
	if v := timer.Millis(); v != 4294967 {
		t.Errorf("Millis() = %d, want 4294967", v)
	}
}

func TestSample(t *testing.T) {
	timer := NewTimer("timer", MonotonicClock{})
	for i := 0; i < 100; i++ {
		us, ms := timer.Sample()
		if ms != us/1000 {
			t.Fatalf("Sample() = %d, %d; millis is not micros/1000", us, ms)
		}
	}
}

func TestMonotonicClockNonDecreasing(t *testing.T) {
	timer := NewTimer("timer", MonotonicClock{})
	prev := timer.Micros()
	for i := 0; i < 1000; i++ {
		now := timer.Micros()
		// a wrap shows up as a huge jump backwards; anything else must not go back
		if now < prev && prev-now < 1<<31 {
			t.Fatalf("Micros went from %d to %d", prev, now)
		}
		prev = now
	}
}

func TestDelay(t *testing.T) {
	var slept []time.Duration
	timer := NewTimer("timer", MonotonicClock{})
	e := timer.SetOptions(map[string]interface{}{
		"sleep": func(d time.Duration) { slept = append(slept, d) },
	})
	if e != nil {
		t.Fatalf("SetOptions returned %s", e)
	}

	timer.Delay(25)
	timer.DelayMicroseconds(40)
	if len(slept) != 2 || slept[0] != 25*time.Millisecond || slept[1] != 40*time.Microsecond {
		t.Errorf("slept %v, want [25ms 40µs]", slept)
	}
}

func TestDelayBlocks(t *testing.T) {
	timer := NewTimer("timer", MonotonicClock{})
	start := time.Now()
	timer.DelayMicroseconds(2000)
	if d := time.Since(start); d < 2*time.Millisecond {
		t.Errorf("DelayMicroseconds(2000) returned after %s", d)
	}
}

func TestTimerSetOptions(t *testing.T) {
	timer := NewTimer("timer", nil)
	if e := timer.Enable(); e == nil {
		t.Error("Enable without a clock should fail")
	}
	if e := timer.SetOptions(map[string]interface{}{"clock": "now"}); e == nil {
		t.Error("a clock of the wrong type should be rejected")
	}
	if e := timer.SetOptions(map[string]interface{}{"clock": fixedClock(1, 0)}); e != nil {
		t.Fatalf("SetOptions returned %s", e)
	}
	if v := timer.Micros(); v != 1000000 {
		t.Errorf("Micros() = %d after installing a clock, want 1000000", v)
	}
}
