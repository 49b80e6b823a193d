// affinity_stub.go — CPU pinning no-op for platforms without
// sched_setaffinity(2).

//go:build !linux

package drain

// Pin is a no-op on platforms with no CPU affinity syscall. It always
// succeeds so callers don't need to branch on platform.
func Pin(cpu int) error {
	return nil
}
