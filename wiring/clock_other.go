//go:build !linux

package wiring

import (
	"time"
)

var processStart = time.Now()

// MonotonicClock counts from process start using the runtime's monotonic clock.
type MonotonicClock struct{}

func (MonotonicClock) Now() (int64, int64, error) {
	d := time.Since(processStart)
	return int64(d / time.Second), int64(d % time.Second), nil
}
