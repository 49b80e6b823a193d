// ════════════════════════════════════════════════════════════════════════════════════════════════
// CALLER-TAGGED CONVENIENCE LOGGING
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Level-Tagged Free Functions
//
// Description:
//   Errorf/Warnf/Infof mirror the LOG_ERR/LOG_WARN/LOG_INFO macros this
//   package is modeled on: a level tag plus "(file:line)" ahead of a
//   formatted message, going through the same lock-free enqueue path as
//   Producer.Log. Debugf additionally compiles away entirely unless built
//   with the emberlog_debug tag.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package emberlog

import (
	"fmt"
	"sync"

	"github.com/go-stack/stack"
)

var (
	sysOnce     sync.Once
	sysProducer *Producer
)

func systemProducer() *Producer {
	sysOnce.Do(func() {
		sysProducer, _ = Default().Enable()
	})
	return sysProducer
}

func logTagged(skip int, tag string, format string, args []any) {
	p := systemProducer()
	if p == nil {
		return
	}
	call := stack.Caller(skip)
	location := fmt.Sprintf("%v", call)
	message := fmt.Sprintf(format, args...)
	p.Log(Lit(tag), Lit(" ("), Str(location), Lit(") "), Str(message))
}

// Errorf logs a formatted error-level line tagged with the caller's
// file:line.
func Errorf(format string, args ...any) {
	logTagged(2, "[E]", format, args)
}

// Warnf logs a formatted warning-level line tagged with the caller's
// file:line.
func Warnf(format string, args ...any) {
	logTagged(2, "[W]", format, args)
}

// Infof logs a formatted info-level line tagged with the caller's
// file:line.
func Infof(format string, args ...any) {
	logTagged(2, "[I]", format, args)
}
