// diag.go — cold-path diagnostic notifier.
//
// Mirrors the teacher's debug.DropError/DropMessage (debug/debug.go):
// a deliberately tiny helper invoked only off the log hot path — here,
// Enable's allocation failure and EmergencyShutdown's one-shot notice —
// never Producer.Log itself.

package emberlog

import (
	"fmt"
	"io"
	"os"
)

// dropError reports a cold-path failure as "prefix: err" to out, falling
// back to stderr if out is nil. It is best-effort: any write error from
// the notification itself is discarded, the same way the teacher's
// DropError never propagates its own I/O failures.
func dropError(out io.Writer, prefix string, err error) {
	w := out
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s: %v\n", prefix, err)
}

// dropMessage reports a cold-path notice carrying no error value, such
// as an emergency shutdown, as "prefix: message" to out.
func dropMessage(out io.Writer, prefix, message string) {
	w := out
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s: %s\n", prefix, message)
}
