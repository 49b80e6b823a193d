// console.go — TTY-aware console sink.
//
// Wraps an io.Writer (typically os.Stderr) with Windows ANSI translation
// and per-producer color, but only when the destination is actually a
// terminal — piping emberlog's output to a file or another process must
// never embed escape codes.

package sink

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// producerPalette cycles a small set of ANSI foreground colors across
// producer ids so interleaved lines from different producers are visually
// distinguishable on a terminal.
var producerPalette = [...]string{
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
	"\x1b[32m", // green
	"\x1b[34m", // blue
	"\x1b[31m", // red
}

const ansiReset = "\x1b[0m"

// Console writes colorized lines to w when w is a terminal, and plain
// lines otherwise.
type Console struct {
	w      io.Writer
	isTerm bool
}

// NewConsole wraps w, detecting TTY-ness via go-isatty and applying
// go-colorable's ANSI-to-Win32 translation when w is an *os.File backed
// by a real console — go-colorable's translation only makes sense for an
// actual file descriptor, so any other io.Writer (a buffer, a pipe, a
// net.Conn) is written to directly and never silently redirected.
func NewConsole(w io.Writer) *Console {
	isTerm := false
	if f, ok := w.(*os.File); ok {
		isTerm = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}
	return &Console{w: w, isTerm: isTerm}
}

// WriteLine writes a rendered line for producer id, colorizing it when
// attached to a terminal.
func (c *Console) WriteLine(producerID uint32, line []byte) (int, error) {
	if !c.isTerm {
		return c.w.Write(line)
	}

	color := producerPalette[producerID%uint32(len(producerPalette))]
	n, err := io.WriteString(c.w, color)
	if err != nil {
		return n, err
	}
	n2, err := c.w.Write(line)
	n += n2
	if err != nil {
		return n, err
	}
	n3, err := io.WriteString(c.w, ansiReset)
	return n + n3, err
}

// Write implements Sink without color, for callers that don't have a
// producer id handy (e.g. a non-drain caller reusing the sink directly).
func (c *Console) Write(p []byte) (int, error) {
	return c.w.Write(p)
}
