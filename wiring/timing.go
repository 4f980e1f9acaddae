package wiring

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Clock reads a monotonic time source.
type Clock interface {
	Now() (sec int64, nsec int64, err error)
}

// ClockFunc lets a plain function act as a Clock.
type ClockFunc func() (int64, int64, error)

func (f ClockFunc) Now() (int64, int64, error) {
	return f()
}

// Timer provides the Arduino time functions. It satisfies Module so a board can hand it out with the
// rest of its peripherals.
type Timer struct {
	name  string
	clock Clock
	sleep func(time.Duration)
	log   zerolog.Logger
}

func NewTimer(name string, clock Clock) *Timer {
	return &Timer{name: name, clock: clock, sleep: time.Sleep, log: moduleLogger(name)}
}

// Set options of the module. Parameters we look for include:
// - "clock" - a Clock
// - "sleep" - a func(time.Duration) used in place of time.Sleep
func (t *Timer) SetOptions(options map[string]interface{}) error {
	if v := options["clock"]; v != nil {
		c, ok := v.(Clock)
		if !ok {
			return fmt.Errorf("Module '%s' option 'clock' is a %T, not a Clock", t.GetName(), v)
		}
		t.clock = c
	}
	if v := options["sleep"]; v != nil {
		s, ok := v.(func(time.Duration))
		if !ok {
			return fmt.Errorf("Module '%s' option 'sleep' is a %T, not a func(time.Duration)", t.GetName(), v)
		}
		t.sleep = s
	}
	return nil
}

func (t *Timer) Enable() error {
	if t.clock == nil {
		return fmt.Errorf("Module '%s' has no clock", t.GetName())
	}
	return nil
}

func (t *Timer) Disable() error {
	return nil
}

func (t *Timer) GetName() string {
	return t.name
}

func (t *Timer) SetLogger(l zerolog.Logger) {
	t.log = l
}

// Pauses the program for at least ms milliseconds.
func (t *Timer) Delay(ms uint32) {
	t.sleep(time.Duration(ms) * time.Millisecond)
}

// Pauses the program for at least us microseconds.
func (t *Timer) DelayMicroseconds(us uint32) {
	t.sleep(time.Duration(us) * time.Microsecond)
}

// Micros returns microseconds since the clock's epoch. The counter is 32 bits wide and goes back to zero
// after a little over 71 minutes, so only differences between readings are meaningful. CLOCK_TIME_ERROR is
// returned if the clock cannot be read.
func (t *Timer) Micros() uint32 {
	us, _ := t.read()
	return us
}

// Millis is Micros()/1000, so it wraps at the same moment. CLOCK_TIME_ERROR is returned if the clock
// cannot be read.
func (t *Timer) Millis() uint32 {
	_, ms := t.Sample()
	return ms
}

// Sample reads the clock once and returns it both in microseconds and milliseconds. A reading that happens
// to equal CLOCK_TIME_ERROR is still divided; only a clock failure gives CLOCK_TIME_ERROR for both.
func (t *Timer) Sample() (micros uint32, millis uint32) {
	micros, ok := t.read()
	if !ok {
		return CLOCK_TIME_ERROR, CLOCK_TIME_ERROR
	}
	return micros, micros / 1000
}

func (t *Timer) read() (uint32, bool) {
	sec, nsec, e := t.clock.Now()
	if e != nil {
		t.log.Error().Err(e).Msg("Clock Time error")
		return CLOCK_TIME_ERROR, false
	}
	return uint32(uint64(sec)*1000000 + uint64(nsec)/1000), true
}
