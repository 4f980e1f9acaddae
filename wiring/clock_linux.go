//go:build linux

package wiring

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MonotonicClock reads CLOCK_MONOTONIC, which counts from boot and is not affected by changes to the
// wall clock.
type MonotonicClock struct{}

func (MonotonicClock) Now() (int64, int64, error) {
	var ts unix.Timespec
	if e := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); e != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrClockTime, e)
	}
	sec, nsec := ts.Unix()
	return sec, nsec, nil
}
