package stt

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// TranscribeFunc is called when Transcribe is invoked.
	// If nil, returns a fixed transcript.
	TranscribeFunc func(ctx context.Context, wav []byte) (string, error)

	// HealthFunc is called when Health is invoked.
	// If nil, returns nil (healthy).
	HealthFunc func(ctx context.Context) error

	// Tracking
	mu         sync.Mutex
	audioSeen  [][]byte
	transcribe int
}

// NewMock creates a mock provider that returns a fixed transcript.
func NewMock(text string) *Mock {
	return &Mock{
		TranscribeFunc: func(ctx context.Context, wav []byte) (string, error) {
			return text, nil
		},
	}
}

// WithError returns a mock whose Transcribe always fails.
func WithError(err error) *Mock {
	return &Mock{
		TranscribeFunc: func(ctx context.Context, wav []byte) (string, error) {
			return "", err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Transcribe calls TranscribeFunc and records the call.
func (m *Mock) Transcribe(ctx context.Context, wav []byte) (string, error) {
	m.mu.Lock()
	m.transcribe++
	m.audioSeen = append(m.audioSeen, wav)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, wav)
	}
	return "", nil
}

// Health calls HealthFunc.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (m *Mock) Close() error {
	return nil
}

// TranscribeCount returns how many times Transcribe was called.
func (m *Mock) TranscribeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcribe
}

// AudioSeen returns the audio blobs passed to Transcribe.
func (m *Mock) AudioSeen() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.audioSeen))
	copy(out, m.audioSeen)
	return out
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
