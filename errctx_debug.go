//go:build emberlog_debug

package emberlog

// Debugf logs a formatted debug-level line tagged with the caller's
// file:line. Built only with the emberlog_debug tag; without it, calls
// to Debugf compile to nothing (see errctx_nodebug.go).
func Debugf(format string, args ...any) {
	logTagged(2, "[D]", format, args)
}
