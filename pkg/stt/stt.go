// Package stt provides a unified interface for speech-to-text providers.
//
// The bridge uploads WAV segments of caller audio and gets back plain
// text. Implementations must treat silence and noise gracefully: an
// empty transcript is a valid result, not an error.
//
// Example usage:
//
//	provider, _ := stt.NewElevenLabs(
//	    stt.WithAPIKey(os.Getenv("ELEVENLABS_API_KEY")),
//	)
//	defer provider.Close()
//
//	text, _ := provider.Transcribe(ctx, wavBytes)
package stt

import "context"

// Provider defines the speech-to-text provider interface.
type Provider interface {
	// Transcribe converts a WAV byte blob to text.
	// An empty or whitespace-only result means no speech was detected.
	Transcribe(ctx context.Context, wav []byte) (string, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}
