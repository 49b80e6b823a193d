// ════════════════════════════════════════════════════════════════════════════════════════════════
// PUBLIC ENQUEUE SURFACE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: emberlog
// Component: Producer-Facing API
//
// Description:
//   Enable hands out a Producer bound to one recycled-or-fresh id and its
//   own ring. Log and Shutdown are the only two things a Producer does on
//   the hot path, and neither ever blocks: a full ring just drops the
//   line (Log) or reports failure for the caller to retry (Shutdown).
// ════════════════════════════════════════════════════════════════════════════════════════════════

package emberlog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/emberforge/emberlog/drain"
	"github.com/emberforge/emberlog/internal/threadid"
	"github.com/emberforge/emberlog/ringbuf"
	"github.com/emberforge/emberlog/segment"
)

// Logger owns the producer id registry, the per-producer rings, and the
// configuration the drain loop runs with. The zero value is not usable;
// construct one with New.
type Logger struct {
	reg   *threadid.Registry
	rings [threadid.MaxProducers]atomic.Pointer[ringbuf.Ring]
	cfg   config

	emergency atomic.Bool
	startTime uint64
}

// New constructs a Logger. It does not start draining; call Run (typically
// from its own goroutine) to begin consuming producers' rings.
func New(opts ...Option) *Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Logger{
		reg: threadid.NewRegistry(),
		cfg: cfg,
	}
	l.startTime = cfg.clk.Now()
	return l
}

// Producer is a handle bound to one id and ring, returned by Enable. Go
// has no thread-local storage and goroutines migrate between OS threads,
// so callers hold onto their Producer explicitly instead of relying on
// ambient identity the way the system this package is modeled on does.
type Producer struct {
	logger *Logger
	id     uint32
	ring   *ringbuf.Ring
}

// maxBufferSizeLog2 bounds a single producer ring's size. 1<<31 bytes (2
// GiB) per producer is already far past anything this library's use case
// needs; Enable rejects anything at or beyond it rather than attempting
// the allocation, and also converts an allocator panic on a value under
// that ceiling (host genuinely out of memory) into ErrAllocFailure.
const maxBufferSizeLog2 = 31

// Enable assigns a producer id (recycling one if available) and lazily
// allocates its ring on first use. It returns ErrAllocFailure, with the
// id released back to the registry, if the ring cannot be allocated.
func (l *Logger) Enable() (*Producer, error) {
	id := l.reg.Assign()
	if id == 0 || id >= threadid.MaxProducers {
		l.reg.Release(id)
		return nil, ErrIDExhausted
	}

	if l.rings[id].Load() == nil {
		ring, err := newRing(l.cfg.bufferSizeLog2)
		if err != nil {
			l.reg.Release(id)
			dropError(l.cfg.out, "enable: allocate producer ring", err)
			return nil, err
		}
		l.rings[id].CompareAndSwap(nil, ring)
	}

	return &Producer{logger: l, id: id, ring: l.rings[id].Load()}, nil
}

// newRing allocates a ring, turning an out-of-range size or an allocator
// panic into ErrAllocFailure instead of letting either escape Enable.
func newRing(sizeLog2 uint) (ring *ringbuf.Ring, err error) {
	if sizeLog2 >= maxBufferSizeLog2 {
		return nil, ErrAllocFailure
	}
	defer func() {
		if recover() != nil {
			ring, err = nil, ErrAllocFailure
		}
	}()
	return ringbuf.New(sizeLog2), nil
}

// ID returns the producer id assigned by Enable.
func (p *Producer) ID() uint32 { return p.id }

// Log encodes segs back-to-back behind an 8-byte timestamp header and
// enqueues them as one line. It never blocks: if the producer has been
// released it returns ErrNotEnabled, and if the ring has no room for the
// reservation it returns ErrBufferFull. Either way the line is dropped.
func (p *Producer) Log(segs ...segment.Segment) (bool, error) {
	if p == nil || p.ring == nil {
		return false, ErrNotEnabled
	}

	bodySize := int64(0)
	for _, s := range segs {
		bodySize += int64(s.Size())
	}
	total := int64(lineHeaderSize) + bodySize

	ok := p.ring.Produce(total, func(dst []byte) bool {
		putLineHeader(dst, p.logger.cfg.clk.Now())
		off := lineHeaderSize
		for _, s := range segs {
			off += s.Encode(dst[off:])
		}
		return true
	})
	if !ok {
		return false, ErrBufferFull
	}
	return true, nil
}

// Shutdown enqueues the sentinel line that tells the drain loop this
// producer is done. It returns ErrNotEnabled on a released Producer and
// ErrShutdownDuringProduce if the ring has no room for the sentinel; the
// caller may retry or escalate to (*Logger).EmergencyShutdown.
func (p *Producer) Shutdown() (bool, error) {
	if p == nil || p.ring == nil {
		return false, ErrNotEnabled
	}
	ok := p.ring.Produce(lineHeaderSize, func(dst []byte) bool {
		putLineHeader(dst, shutdownSentinel)
		return true
	})
	if !ok {
		return false, ErrShutdownDuringProduce
	}
	return true, nil
}

// Release returns p's id to the registry's free list for reuse by a later
// Enable call. It does not release the ring itself — ids are reused, but
// rings stay allocated for the process lifetime to avoid racing the drain
// loop's read of a ring it might still be draining.
func (p *Producer) Release() {
	if p == nil {
		return
	}
	p.logger.reg.Release(p.id)
	p.ring = nil
}

// EmergencyShutdown sets the emergency flag consulted by Run's drain
// loop. The loop returns within one pass over all producer ids; any
// buffered lines it had not yet reached are abandoned.
func (l *Logger) EmergencyShutdown() {
	l.emergency.Store(true)
	dropMessage(l.cfg.out, "emergency_shutdown", "drain loop stopping within one pass, buffered lines abandoned")
}

// Run drains every enabled producer's ring until either the cooperative
// shutdown policy is satisfied, EmergencyShutdown is called, or ctx is
// canceled. It blocks; callers run it in a dedicated goroutine.
func (l *Logger) Run(ctx context.Context) error {
	return drain.Loop(ctx, drain.Params{
		MaxAssigned: l.reg.MaxAssigned,
		Ring:        func(id uint32) *ringbuf.Ring { return l.rings[id].Load() },
		Clock:       l.cfg.clk,
		Sink:        l.cfg.out,
		StartTime:   l.startTime,
		SpinMax:     l.cfg.spinMax,
		Sleep:       l.cfg.sleep,
		QuiesceAll:  l.cfg.quiesceAll,
		Emergency:   &l.emergency,
		PinCPU:      l.cfg.pinCPU,
	})
}

// Fmt builds a segment for any supported value, folding in attrs the way
// the original's fmt(msg, attrs...) functor chain does. Unsupported types
// fall back to a string literal naming the failure, since logging must
// never panic the caller.
func Fmt(value any, attrs ...segment.Attr) segment.Segment {
	switch v := value.(type) {
	case string:
		return Str(v)
	case bool:
		return segment.Bool(v)
	case int:
		return intSegment(attrs, 3, false, uint64(int64(v)))
	case int8:
		return intSegment(attrs, 0, false, uint64(int64(v)))
	case int16:
		return intSegment(attrs, 1, false, uint64(int64(v)))
	case int32:
		return intSegment(attrs, 2, false, uint64(int64(v)))
	case int64:
		return intSegment(attrs, 3, false, uint64(v))
	case uint:
		return intSegment(attrs, 3, true, uint64(v))
	case uint8:
		return intSegment(attrs, 0, true, uint64(v))
	case uint16:
		return intSegment(attrs, 1, true, uint64(v))
	case uint32:
		return intSegment(attrs, 2, true, uint64(v))
	case uint64:
		return intSegment(attrs, 3, true, v)
	case float32:
		a := segment.NewFloatAttrs(2)
		a.Apply(attrs...)
		return segment.Float32(a.Word(), v)
	case float64:
		a := segment.NewFloatAttrs(3)
		a.Apply(attrs...)
		return segment.Float64(a.Word(), v)
	default:
		return segment.StringLiteral("<unsupported type>")
	}
}

func intSegment(attrs []segment.Attr, sizeLog2 uint, unsigned bool, value uint64) segment.Segment {
	a := segment.NewIntAttrs(sizeLog2, unsigned)
	a.Apply(attrs...)
	return segment.Integer(a.Word(), value)
}

// Lit builds a zero-copy segment over a compile-time string constant. s
// must not be backed by memory the caller can mutate or free — use Str
// for anything else.
func Lit(s string) segment.Segment { return segment.StringLiteral(s) }

// Str builds a segment that copies s's bytes, safe for strings built
// at runtime. Only the first 48 bytes are kept; longer strings are
// truncated.
func Str(s string) segment.Segment { return segment.OwnedString(s) }

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the package-level Logger, constructing it on first use
// from environment-variable configuration alone.
func Default() *Logger {
	defaultOnce.Do(func() { defaultLogger = New() })
	return defaultLogger
}

// Enable is shorthand for Default().Enable().
func Enable() (*Producer, error) { return Default().Enable() }

// Run is shorthand for Default().Run(ctx).
func Run(ctx context.Context) error { return Default().Run(ctx) }

// EmergencyShutdown is shorthand for Default().EmergencyShutdown().
func EmergencyShutdown() { Default().EmergencyShutdown() }
