//go:build arm64 && !noasm && cgo

package drain

/*
static inline void cpu_yield() {
    __asm__ __volatile__("yield" ::: "memory");
}
*/
import "C"

// cpuRelax emits the ARM64 YIELD instruction, the AArch64 analogue of
// PAUSE: a hint that the core is spin-waiting.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
func cpuRelax() {
	C.cpu_yield()
}
