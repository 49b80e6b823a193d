//go:build !emberlog_debug

package emberlog

// Debugf is a no-op without the emberlog_debug build tag, so debug
// logging callers pay no cost in production builds.
func Debugf(format string, args ...any) {}
