package chat

import (
	"context"
	"sync"

	"github.com/voicebridge/voicebridge/pkg/session"
)

// Mock implements Provider for testing.
type Mock struct {
	// ReplyFunc is called when Reply is invoked.
	// If nil, returns a fixed reply.
	ReplyFunc func(ctx context.Context, transcript []session.Turn) (string, error)

	// Tracking
	mu          sync.Mutex
	transcripts [][]session.Turn
}

// NewMock creates a mock provider that returns a fixed reply.
func NewMock(reply string) *Mock {
	return &Mock{
		ReplyFunc: func(ctx context.Context, transcript []session.Turn) (string, error) {
			return reply, nil
		},
	}
}

// WithError returns a mock whose Reply always fails.
func WithError(err error) *Mock {
	return &Mock{
		ReplyFunc: func(ctx context.Context, transcript []session.Turn) (string, error) {
			return "", err
		},
	}
}

// Reply calls ReplyFunc and records the transcript it was given.
func (m *Mock) Reply(ctx context.Context, transcript []session.Turn) (string, error) {
	m.mu.Lock()
	m.transcripts = append(m.transcripts, transcript)
	m.mu.Unlock()

	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, transcript)
	}
	return "", nil
}

// Close is a no-op.
func (m *Mock) Close() error {
	return nil
}

// ReplyCount returns how many times Reply was called.
func (m *Mock) ReplyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transcripts)
}

// LastTranscript returns the transcript from the most recent call,
// or nil if Reply was never called.
func (m *Mock) LastTranscript() []session.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.transcripts) == 0 {
		return nil
	}
	return m.transcripts[len(m.transcripts)-1]
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
