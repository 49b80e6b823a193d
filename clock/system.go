package clock

import "time"

// System is the portable Clock, backed by time.Now(). It is the default
// for every platform and the calibration reference for TSC.
type System struct{}

// monoBase is the fixed point System.Now measures from, taken at package
// initialization.
var monoBase = time.Now()

// Now returns nanoseconds since an arbitrary fixed point (time.Now's
// monotonic reading), matching time.Duration's unit.
func (System) Now() uint64 { return uint64(time.Since(monoBase)) }

// Freq is fixed at one tick per nanosecond.
func (System) Freq() uint64 { return uint64(time.Second) }
