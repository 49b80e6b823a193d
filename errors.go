package emberlog

import "errors"

var (
	// ErrBufferFull is returned by (*Producer).Log when the producer's
	// ring has no room for the reservation. The line is dropped; logging
	// never blocks to wait for space.
	ErrBufferFull = errors.New("emberlog: producer buffer full")

	// ErrNotEnabled is returned by operations on a Producer obtained from
	// a failed Enable call, or after its id has been released.
	ErrNotEnabled = errors.New("emberlog: producer not enabled")

	// ErrAllocFailure is returned by Enable when a new per-producer ring
	// could not be allocated.
	ErrAllocFailure = errors.New("emberlog: failed to allocate producer buffer")

	// ErrIDExhausted is returned by Enable when the producer id space is
	// exhausted and no id could be recycled.
	ErrIDExhausted = errors.New("emberlog: producer id space exhausted")

	// ErrShutdownDuringProduce is returned by (*Producer).Shutdown when
	// the shutdown sentinel itself could not be enqueued because the
	// buffer was full.
	ErrShutdownDuringProduce = errors.New("emberlog: could not enqueue shutdown sentinel")
)
