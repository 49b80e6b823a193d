//go:build amd64 && !noasm && cgo

package drain

/*
static inline void cpu_pause() {
    __asm__ __volatile__("pause" ::: "memory");
}
*/
import "C"

// cpuRelax emits the x86-64 PAUSE instruction. Called once per empty spin
// iteration so the drain loop yields pipeline slots to sibling hyperthreads
// instead of hammering the ring's atomic load at full clock speed.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
func cpuRelax() {
	C.cpu_pause()
}
