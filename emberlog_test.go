package emberlog

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/emberforge/emberlog/segment"
)

func newTestLogger(out *bytes.Buffer) *Logger {
	return New(
		WithBufferSizeLog2(12),
		WithSink(nopFlushSink{out}),
		WithSpinMax(5),
		WithSleep(time.Millisecond),
	)
}

// nopFlushSink adapts a *bytes.Buffer to sink.Sink without pulling in
// the sink package's TTY-detection machinery for these tests.
type nopFlushSink struct{ buf *bytes.Buffer }

func (s nopFlushSink) Write(p []byte) (int, error) { return s.buf.Write(p) }

func TestEnableAssignsDistinctIDs(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger(&out)

	p1, err := l.Enable()
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	p2, err := l.Enable()
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if p1.ID() == p2.ID() {
		t.Fatalf("two Enable() calls returned the same id %d", p1.ID())
	}
}

func TestLogAndDrainEndToEnd(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger(&out)

	p, err := l.Enable()
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	if ok, err := p.Log(Lit("hello "), Fmt(42)); !ok {
		t.Fatalf("Log() = false, err = %v, want true", err)
	}
	if ok, err := p.Shutdown(); !ok {
		t.Fatalf("Shutdown() = false, err = %v, want true", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !bytes.Contains(out.Bytes(), []byte("hello 42")) {
		t.Fatalf("output = %q, want it to contain %q", out.String(), "hello 42")
	}
}

func TestShutdownDuringProduceOnFullBuffer(t *testing.T) {
	var out bytes.Buffer
	l := New(WithBufferSizeLog2(5), WithSink(nopFlushSink{&out})) // tiny 32-byte ring
	p, err := l.Enable()
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	// Fill the ring with a line that leaves no room for a sentinel: an
	// 8-byte header plus a 10-byte one-character string segment is an
	// 18-byte record, which with its length word and rounding takes all
	// 32 bytes.
	if ok, err := p.Log(segment.OwnedString("x")); !ok {
		t.Fatalf("Log() = false, err = %v, want true", err)
	}

	if ok, err := p.Shutdown(); ok || err != ErrShutdownDuringProduce {
		t.Fatalf("Shutdown() = %v, %v, want false, ErrShutdownDuringProduce", ok, err)
	}
}

func TestEmergencyShutdownStopsRunPromptly(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger(&out)
	if _, err := l.Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	l.EmergencyShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestEmergencyShutdownWritesDiagnosticNotice(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger(&out)

	l.EmergencyShutdown()

	if !bytes.Contains(out.Bytes(), []byte("emergency_shutdown")) {
		t.Fatalf("sink = %q, want a cold-path emergency_shutdown notice", out.String())
	}
}

func TestEnableReturnsAllocFailureOnOversizedBuffer(t *testing.T) {
	var out bytes.Buffer
	l := New(WithBufferSizeLog2(maxBufferSizeLog2), WithSink(nopFlushSink{&out}))

	p, err := l.Enable()
	if err != ErrAllocFailure {
		t.Fatalf("Enable() error = %v, want ErrAllocFailure", err)
	}
	if p != nil {
		t.Fatalf("Enable() producer = %v, want nil on failure", p)
	}
	if !bytes.Contains(out.Bytes(), []byte("allocate producer ring")) {
		t.Fatalf("sink = %q, want a cold-path allocation-failure notice", out.String())
	}
}

func TestProducerReleaseRecyclesID(t *testing.T) {
	var out bytes.Buffer
	l := newTestLogger(&out)

	p1, _ := l.Enable()
	id1 := p1.ID()
	p1.Release()

	p2, err := l.Enable()
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if p2.ID() != id1 {
		t.Fatalf("Enable() after Release() = %d, want recycled id %d", p2.ID(), id1)
	}
}

func TestFmtBuildsExpectedSegmentKinds(t *testing.T) {
	cases := []struct {
		value any
		want  segment.Tag
	}{
		{"s", segment.TagOwnedString},
		{true, segment.TagStringLiteral},
		{1, segment.TagInteger},
		{int64(-1), segment.TagInteger},
		{uint64(1), segment.TagInteger},
		{float32(1.5), segment.TagFloat},
		{float64(1.5), segment.TagFloat},
		{struct{}{}, segment.TagStringLiteral},
	}
	for _, c := range cases {
		seg := Fmt(c.value)
		if seg.Size() == 0 {
			t.Errorf("Fmt(%#v).Size() = 0, want > 0", c.value)
			continue
		}
		buf := make([]byte, seg.Size())
		seg.Encode(buf)
		if got := segment.Tag(buf[0]); got != c.want {
			t.Errorf("Fmt(%#v) tag = %d, want %d", c.value, got, c.want)
		}
	}
}
