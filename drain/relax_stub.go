//go:build (!amd64 && !arm64) || noasm || !cgo

package drain

// cpuRelax is a no-op on architectures with no spin-wait hint instruction
// wired up here; the loop just spins at full speed.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
func cpuRelax() {}
