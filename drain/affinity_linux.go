// affinity_linux.go — optional CPU pinning for the drain loop goroutine.
//
// Adapted from the ring24 package's setaffinity_linux.go: the original
// there hand-rolled a raw sched_setaffinity syscall with precomputed
// bitmasks. This version instead goes through golang.org/x/sys/unix,
// which already wraps CPUSet construction and the syscall safely.

//go:build linux

package drain

import "golang.org/x/sys/unix"

// Pin binds the calling goroutine's OS thread to cpu. The caller must
// have already called runtime.LockOSThread; Pin does not do that itself
// since unlocking belongs to whoever locked.
func Pin(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
