// Package chat provides a unified interface for reply-generation providers.
//
// The bridge hands the full role-tagged transcript of a call to a
// provider and gets back the assistant's next turn, bounded in length
// because the reply will be spoken over a phone line.
package chat

import (
	"context"

	"github.com/voicebridge/voicebridge/pkg/session"
)

// Provider defines the reply-generation provider interface.
type Provider interface {
	// Reply generates the assistant's next turn from the transcript.
	// The transcript includes the seeded system turn and all prior
	// user/assistant turns in order.
	Reply(ctx context.Context, transcript []session.Turn) (string, error)

	// Close releases any resources held by the provider.
	Close() error
}
