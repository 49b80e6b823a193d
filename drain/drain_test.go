package drain

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emberforge/emberlog/ringbuf"
	"github.com/emberforge/emberlog/segment"
)

type fakeClock struct{ t uint64 }

func (f *fakeClock) Now() uint64 { return f.t }
func (fakeClock) Freq() uint64   { return 1_000_000_000 }

func writeLine(t *testing.T, ring *ringbuf.Ring, timestamp uint64, segs ...segment.Segment) {
	t.Helper()
	body := int64(lineHeaderSize)
	for _, s := range segs {
		body += int64(s.Size())
	}
	ok := ring.Produce(body, func(dst []byte) bool {
		for i := 0; i < lineHeaderSize; i++ {
			dst[i] = byte(timestamp >> (8 * i))
		}
		off := lineHeaderSize
		for _, s := range segs {
			off += s.Encode(dst[off:])
		}
		return true
	})
	if !ok {
		t.Fatal("Produce() failed setting up test line")
	}
}

func writeShutdown(t *testing.T, ring *ringbuf.Ring) {
	t.Helper()
	ok := ring.Produce(lineHeaderSize, func(dst []byte) bool {
		for i := range dst {
			dst[i] = 0xff
		}
		return true
	})
	if !ok {
		t.Fatal("Produce() shutdown sentinel failed")
	}
}

func TestLoopRendersLineAndStopsOnShutdown(t *testing.T) {
	ring := ringbuf.New(12)
	writeLine(t, ring, 1_500_000_000, segment.StringLiteral("hello"))
	writeShutdown(t, ring)

	var out bytes.Buffer
	clk := &fakeClock{t: 0}

	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 1 },
		Ring:        func(id uint32) *ringbuf.Ring { return ring },
		Clock:       clk,
		Sink:        &out,
		StartTime:   0,
		SpinMax:     10,
		Sleep:       time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}

	got := out.String()
	if !bytes.Contains([]byte(got), []byte("hello")) {
		t.Fatalf("output = %q, want it to contain %q", got, "hello")
	}
	if !bytes.Contains([]byte(got), []byte("[0]")) {
		t.Fatalf("output = %q, want it to contain producer tag %q", got, "[0]")
	}
}

func TestLoopRendersIntegerAndFloatSegments(t *testing.T) {
	ring := ringbuf.New(12)
	intAttrs := segment.NewIntAttrs(3, true)
	floatAttrs := segment.NewFloatAttrs(3)
	writeLine(t, ring, 0,
		segment.StringLiteral("n="),
		segment.Integer(intAttrs.Word(), 42),
		segment.StringLiteral(" f="),
		segment.Float64(floatAttrs.Word(), 2.5),
	)
	writeShutdown(t, ring)

	var out bytes.Buffer
	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 1 },
		Ring:        func(id uint32) *ringbuf.Ring { return ring },
		Clock:       &fakeClock{},
		Sink:        &out,
		SpinMax:     10,
		Sleep:       time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}

	got := out.String()
	if !bytes.Contains([]byte(got), []byte("n=42 f=2.5")) {
		t.Fatalf("output = %q, want it to contain %q", got, "n=42 f=2.5")
	}
}

func TestLoopStopsOnEmergency(t *testing.T) {
	ring := ringbuf.New(10) // never gets a shutdown sentinel
	var emergency atomic.Bool
	emergency.Store(true)

	var out bytes.Buffer
	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 1 },
		Ring:        func(id uint32) *ringbuf.Ring { return ring },
		Clock:       &fakeClock{},
		Sink:        &out,
		SpinMax:     10,
		Sleep:       time.Millisecond,
		Emergency:   &emergency,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	ring := ringbuf.New(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := Loop(ctx, Params{
		MaxAssigned: func() uint32 { return 1 },
		Ring:        func(id uint32) *ringbuf.Ring { return ring },
		Clock:       &fakeClock{},
		Sink:        &out,
		SpinMax:     10,
		Sleep:       time.Millisecond,
	})
	if err == nil {
		t.Fatal("Loop() error = nil, want context.Canceled")
	}
}

func TestQuiesceAllWaitsForEveryProducer(t *testing.T) {
	ringA := ringbuf.New(10)
	ringB := ringbuf.New(10)
	writeShutdown(t, ringA)
	// ringB's sentinel is written before Loop starts rather than after a
	// delay, so the test stays deterministic.
	writeShutdown(t, ringB)

	rings := map[uint32]*ringbuf.Ring{0: ringA, 1: ringB}

	var out bytes.Buffer
	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 2 },
		Ring:        func(id uint32) *ringbuf.Ring { return rings[id] },
		Clock:       &fakeClock{},
		Sink:        &out,
		SpinMax:     10,
		Sleep:       time.Millisecond,
		QuiesceAll:  true,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}
}

type fakeRecordSink struct {
	producerID uint32
	seconds    float64
	message    string
}

func (f *fakeRecordSink) Write(p []byte) (int, error) { return len(p), nil }

func (f *fakeRecordSink) WriteRecord(producerID uint32, seconds float64, message string) error {
	f.producerID = producerID
	f.seconds = seconds
	f.message = message
	return nil
}

func TestLoopPrefersRecordWriterOverPlainWrite(t *testing.T) {
	ring := ringbuf.New(12)
	writeLine(t, ring, 2_000_000_000, segment.StringLiteral("no-prefix"))
	writeShutdown(t, ring)

	rs := &fakeRecordSink{}
	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 1 },
		Ring:        func(id uint32) *ringbuf.Ring { return ring },
		Clock:       &fakeClock{},
		Sink:        rs,
		StartTime:   0,
		SpinMax:     10,
		Sleep:       time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}

	if rs.producerID != 0 {
		t.Fatalf("producerID = %d, want 0", rs.producerID)
	}
	if rs.message != "no-prefix" {
		t.Fatalf("message = %q, want %q (no line prefix folded in)", rs.message, "no-prefix")
	}
}

type fakeLineSink struct {
	producerID uint32
	line       []byte
}

func (f *fakeLineSink) Write(p []byte) (int, error) { return len(p), nil }

func (f *fakeLineSink) WriteLine(producerID uint32, line []byte) (int, error) {
	f.producerID = producerID
	f.line = append([]byte(nil), line...)
	return len(line), nil
}

func TestLoopPrefersLineWriterOverPlainWrite(t *testing.T) {
	ring := ringbuf.New(12)
	writeLine(t, ring, 3_000_000_000, segment.StringLiteral("tagged"))
	writeShutdown(t, ring)

	ls := &fakeLineSink{}
	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 7 },
		Ring: func(id uint32) *ringbuf.Ring {
			if id == 6 {
				return ring
			}
			return nil
		},
		Clock:     &fakeClock{},
		Sink:      ls,
		StartTime: 0,
		SpinMax:   10,
		Sleep:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}

	if ls.producerID != 6 {
		t.Fatalf("producerID = %d, want 6", ls.producerID)
	}
	if !bytes.Contains(ls.line, []byte("tagged")) || !bytes.Contains(ls.line, []byte("[6]")) {
		t.Fatalf("line = %q, want it to contain the rendered prefix and message", ls.line)
	}
}

func TestShutdownOnOneProducerDoesNotStarveAnother(t *testing.T) {
	// Producer 0 quiesces immediately; producer 1 has a long backlog of
	// content lines still sitting in its ring. The loop must not stop the
	// moment it sees producer 0's sentinel — every one of producer 1's
	// lines must still be drained first.
	ringA := ringbuf.New(10)
	ringB := ringbuf.New(14)
	writeShutdown(t, ringA)

	const wantLines = 50
	for i := 0; i < wantLines; i++ {
		writeLine(t, ringB, uint64(i), segment.StringLiteral("b-line"))
	}
	writeShutdown(t, ringB)

	rings := map[uint32]*ringbuf.Ring{0: ringA, 1: ringB}

	var out bytes.Buffer
	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 2 },
		Ring:        func(id uint32) *ringbuf.Ring { return rings[id] },
		Clock:       &fakeClock{},
		Sink:        &out,
		SpinMax:     10,
		Sleep:       time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}

	got := bytes.Count(out.Bytes(), []byte("b-line"))
	if got != wantLines {
		t.Fatalf("drained %d of producer 1's %d lines before stopping on producer 0's sentinel", got, wantLines)
	}
}

func TestNilRingsAreSkipped(t *testing.T) {
	var out bytes.Buffer
	ring := ringbuf.New(10)
	writeShutdown(t, ring)

	err := Loop(context.Background(), Params{
		MaxAssigned: func() uint32 { return 4 },
		Ring: func(id uint32) *ringbuf.Ring {
			if id == 2 {
				return ring
			}
			return nil
		},
		Clock:   &fakeClock{},
		Sink:    &out,
		SpinMax: 10,
		Sleep:   time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Loop() error = %v", err)
	}
}
