// Package session holds per-call state for the bridge.
//
// A Session consolidates everything one active call owns: the buffer
// of audio frames not yet dispatched for transcription, the timestamp
// of the last received frame, and the role-tagged conversation
// transcript. Sessions are created when a media stream connects and
// released as a unit when it closes.
package session

import (
	"sync"
	"time"
)

// Role tags a transcript turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in a conversation transcript.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"content"`
}

// DefaultMaxTurns bounds transcript growth on long calls.
const DefaultMaxTurns = 40

// Session is the mutable state for one active call.
// All methods are safe for concurrent use: the read loop appends
// frames while the pipeline worker reads the transcript.
type Session struct {
	callID string

	mu          sync.Mutex
	streamSID   string
	frames      [][]byte
	lastFrameAt time.Time
	transcript  []Turn
	maxTurns    int
	closed      bool
}

// Option configures a Session.
type Option func(*Session)

// WithMaxTurns bounds the transcript sliding window.
func WithMaxTurns(n int) Option {
	return func(s *Session) {
		if n > 2 {
			s.maxTurns = n
		}
	}
}

// New creates a session for the given call, seeding the transcript
// with a system turn.
func New(callID, systemPrompt string, opts ...Option) *Session {
	s := &Session{
		callID:      callID,
		lastFrameAt: time.Now(),
		transcript:  []Turn{{Role: RoleSystem, Text: systemPrompt}},
		maxTurns:    DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CallID returns the telephony provider's call identifier.
func (s *Session) CallID() string {
	return s.callID
}

// SetStreamSID records the media stream identifier from the start
// control message. Outbound frames are tagged with it.
func (s *Session) SetStreamSID(sid string) {
	s.mu.Lock()
	s.streamSID = sid
	s.mu.Unlock()
}

// StreamSID returns the media stream identifier, or "" before start.
func (s *Session) StreamSID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamSID
}

// AppendFrame buffers one inbound audio frame and updates the
// last-frame timestamp. Frames arriving after Close are dropped.
func (s *Session) AppendFrame(frame []byte, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.frames = append(s.frames, frame)
	s.lastFrameAt = now
}

// FrameCount returns the number of buffered, undispatched frames.
func (s *Session) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// LastFrameAt returns when the most recent frame arrived.
func (s *Session) LastFrameAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFrameAt
}

// Drain concatenates all buffered frames in arrival order and clears
// the buffer atomically. The buffer is never partially drained.
func (s *Session) Drain() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, f := range s.frames {
		n += len(f)
	}
	if n == 0 {
		s.frames = nil
		return nil
	}

	segment := make([]byte, 0, n)
	for _, f := range s.frames {
		segment = append(segment, f...)
	}
	s.frames = nil
	return segment
}

// AppendTurn adds a turn to the transcript, evicting the oldest
// non-system turns once the sliding window is full.
func (s *Session) AppendTurn(role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.transcript = append(s.transcript, Turn{Role: role, Text: text})
	if len(s.transcript) > s.maxTurns {
		// Keep the seeded system turn, drop the oldest exchange.
		excess := len(s.transcript) - s.maxTurns
		s.transcript = append(s.transcript[:1], s.transcript[1+excess:]...)
	}
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]Turn, len(s.transcript))
	copy(turns, s.transcript)
	return turns
}

// Close releases the session's buffers. It is idempotent; frame and
// transcript appends after Close are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.frames = nil
	s.transcript = nil
}

// Closed reports whether the session has been released.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
