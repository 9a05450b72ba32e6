package segment

import (
	"bytes"
	"testing"
	"time"

	"github.com/voicebridge/voicebridge/pkg/session"
)

func frame(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestCountThresholdDispatchesOnce(t *testing.T) {
	e := NewEngine()
	s := session.New("CA1", "sys")
	now := time.Now()

	var dispatched []Decision
	for i := 0; i < 20; i++ {
		d := e.OnFrame(s, frame(byte(i), 160), now.Add(time.Duration(i)*20*time.Millisecond))
		if d.Dispatch {
			dispatched = append(dispatched, d)
		}
	}

	if len(dispatched) != 1 {
		t.Fatalf("expected exactly 1 dispatch, got %d", len(dispatched))
	}
	if len(dispatched[0].Segment) != 3200 {
		t.Errorf("segment length = %d, want 3200", len(dispatched[0].Segment))
	}
	if s.FrameCount() != 0 {
		t.Errorf("buffer not cleared: %d frames remain", s.FrameCount())
	}
}

func TestNoDispatchBelowThreshold(t *testing.T) {
	e := NewEngine()
	s := session.New("CA1", "sys")
	now := time.Now()

	for i := 0; i < 19; i++ {
		if d := e.OnFrame(s, frame(1, 160), now.Add(time.Duration(i)*20*time.Millisecond)); d.Dispatch {
			t.Fatalf("unexpected dispatch at frame %d", i)
		}
	}
	if s.FrameCount() != 19 {
		t.Errorf("frame count = %d, want 19", s.FrameCount())
	}
}

func TestSilenceGapDispatchesOnNextFrame(t *testing.T) {
	e := NewEngine()
	s := session.New("CA1", "sys")
	now := time.Now()

	for i := 0; i < 5; i++ {
		e.OnFrame(s, frame(byte(i), 160), now.Add(time.Duration(i)*20*time.Millisecond))
	}

	// Next frame arrives 1.2s after the fifth: the five buffered
	// frames dispatch, the new frame starts the next utterance.
	late := now.Add(80*time.Millisecond + 1200*time.Millisecond)
	d := e.OnFrame(s, frame(9, 160), late)

	if !d.Dispatch {
		t.Fatal("expected dispatch on frame after silence gap")
	}
	if len(d.Segment) != 800 {
		t.Errorf("segment length = %d, want 800", len(d.Segment))
	}
	want := append(append(append(append(frame(0, 160), frame(1, 160)...), frame(2, 160)...), frame(3, 160)...), frame(4, 160)...)
	if !bytes.Equal(d.Segment, want) {
		t.Error("segment is not the concatenation of the buffered frames")
	}
	if s.FrameCount() != 1 {
		t.Errorf("new frame not buffered: count = %d, want 1", s.FrameCount())
	}
}

func TestCheckSilenceDispatchesTrailingUtterance(t *testing.T) {
	e := NewEngine()
	s := session.New("CA1", "sys")
	now := time.Now()

	for i := 0; i < 5; i++ {
		e.OnFrame(s, frame(byte(i), 160), now.Add(time.Duration(i)*20*time.Millisecond))
	}

	if d := e.CheckSilence(s, now.Add(500*time.Millisecond)); d.Dispatch {
		t.Fatal("dispatched before silence threshold")
	}

	d := e.CheckSilence(s, now.Add(80*time.Millisecond+1200*time.Millisecond))
	if !d.Dispatch {
		t.Fatal("expected dispatch after silence threshold")
	}
	if len(d.Segment) != 800 {
		t.Errorf("segment length = %d, want 800", len(d.Segment))
	}
}

func TestCheckSilenceEmptyBufferIsNoOp(t *testing.T) {
	e := NewEngine()
	s := session.New("CA1", "sys")

	if d := e.CheckSilence(s, time.Now().Add(time.Hour)); d.Dispatch {
		t.Error("dispatch with empty buffer")
	}
}

func TestNoFrameLostOrDuplicated(t *testing.T) {
	e := NewEngine(WithMaxFrames(7))
	s := session.New("CA1", "sys")
	now := time.Now()

	var sent, got []byte
	for i := 0; i < 50; i++ {
		f := frame(byte(i), 160)
		sent = append(sent, f...)
		if d := e.OnFrame(s, f, now.Add(time.Duration(i)*20*time.Millisecond)); d.Dispatch {
			got = append(got, d.Segment...)
		}
	}
	got = append(got, s.Drain()...)

	if !bytes.Equal(sent, got) {
		t.Error("dispatched segments do not reassemble the input stream")
	}
}

func TestConfigurableThresholds(t *testing.T) {
	e := NewEngine(WithMaxFrames(3), WithSilenceTimeout(100*time.Millisecond))
	s := session.New("CA1", "sys")
	now := time.Now()

	e.OnFrame(s, frame(1, 10), now)
	e.OnFrame(s, frame(2, 10), now)
	if d := e.OnFrame(s, frame(3, 10), now); !d.Dispatch {
		t.Error("expected dispatch at configured threshold")
	}

	e.OnFrame(s, frame(4, 10), now)
	if d := e.CheckSilence(s, now.Add(150*time.Millisecond)); !d.Dispatch {
		t.Error("expected dispatch at configured silence timeout")
	}
}
