// Package segment decides when buffered audio frames form a complete
// utterance ready for transcription.
//
// Two triggers are evaluated, either of which dispatches the whole
// buffer: a frame-count threshold that bounds latency during
// continuous speech, and a silence threshold that lets short
// utterances complete. Telephony frames arrive every ~20ms, so
// neither condition alone suffices.
package segment

import (
	"time"

	"github.com/voicebridge/voicebridge/pkg/session"
)

// Defaults match the telephony frame cadence: 20 frames is ~400ms of
// continuous speech, 1s of silence ends an utterance.
const (
	DefaultMaxFrames      = 20
	DefaultSilenceTimeout = time.Second
)

// Decision is the outcome of evaluating one frame arrival or silence
// check. When Dispatch is true, Segment holds the concatenated
// utterance and the session buffer has been cleared.
type Decision struct {
	Dispatch bool
	Segment  []byte
}

// continueBuffering is the non-dispatching decision.
var continueBuffering = Decision{}

// Engine evaluates the segmentation triggers. It holds no per-call
// state; all mutable state lives in the Session.
type Engine struct {
	maxFrames int
	silence   time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxFrames sets the frame-count dispatch threshold.
func WithMaxFrames(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxFrames = n
		}
	}
}

// WithSilenceTimeout sets the silence dispatch threshold.
func WithSilenceTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.silence = d
		}
	}
}

// NewEngine creates an Engine with the default thresholds.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxFrames: DefaultMaxFrames,
		silence:   DefaultSilenceTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnFrame evaluates one inbound frame.
//
// The silence gap is measured against the previous frame's arrival
// before this frame is buffered: a frame arriving after a quiet gap
// dispatches the buffered utterance and starts the next one. The
// count threshold is then evaluated with the new frame included.
func (e *Engine) OnFrame(s *session.Session, frame []byte, now time.Time) Decision {
	if s.FrameCount() > 0 && now.Sub(s.LastFrameAt()) > e.silence {
		seg := s.Drain()
		s.AppendFrame(frame, now)
		return dispatch(seg)
	}

	s.AppendFrame(frame, now)
	if s.FrameCount() >= e.maxFrames {
		return dispatch(s.Drain())
	}
	return continueBuffering
}

// CheckSilence evaluates the silence trigger without a frame arrival.
// The session manager runs this on a timer so a trailing utterance
// flushes even when the caller has stopped sending media.
func (e *Engine) CheckSilence(s *session.Session, now time.Time) Decision {
	if s.FrameCount() == 0 {
		return continueBuffering
	}
	if now.Sub(s.LastFrameAt()) <= e.silence {
		return continueBuffering
	}
	return dispatch(s.Drain())
}

func dispatch(seg []byte) Decision {
	if len(seg) == 0 {
		// An empty segment is a normal no-op, not an error.
		return continueBuffering
	}
	return Decision{Dispatch: true, Segment: seg}
}
