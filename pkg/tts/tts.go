// Package tts provides a unified interface for text-to-speech providers.
//
// The bridge synthesizes assistant replies for playback over a phone
// line, so the default output format is ulaw_8000: audio comes back
// already in the telephony wire encoding and is forwarded without
// transcoding.
//
// Example usage:
//
//	provider, _ := tts.NewElevenLabs(
//	    tts.WithAPIKey(os.Getenv("ELEVENLABS_API_KEY")),
//	    tts.WithVoice("your-voice-id"),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Hello world")
//	// result.Audio contains μ-law audio bytes
package tts

import (
	"context"
	"time"
)

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio, returning the complete audio buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete audio synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data in the specified format.
	Audio []byte

	// Format describes the audio encoding and sample rate.
	Format AudioFormat

	// Duration is the estimated audio playback duration.
	Duration time.Duration

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the request round-trip time in milliseconds.
	LatencyMs int64
}

// AudioFormat describes the audio encoding parameters.
type AudioFormat struct {
	// Encoding specifies the audio codec (e.g., ulaw_8000, pcm_24000).
	Encoding Encoding

	// SampleRate in Hz.
	SampleRate int

	// Channels is 1 for mono, 2 for stereo.
	Channels int
}

// Encoding represents audio encoding types.
// These match ElevenLabs output format options.
type Encoding string

const (
	// EncodingULaw is μ-law 8kHz, the telephony wire format.
	EncodingULaw Encoding = "ulaw_8000"

	// EncodingPCM16 is 16kHz mono PCM16.
	EncodingPCM16 Encoding = "pcm_16000"

	// EncodingPCM24 is 24kHz mono PCM16.
	EncodingPCM24 Encoding = "pcm_24000"

	// EncodingMP3 is MP3 at 128kbps.
	EncodingMP3 Encoding = "mp3_44100_128"
)

// SampleRateFromEncoding extracts the sample rate from an encoding type.
func SampleRateFromEncoding(enc Encoding) int {
	switch enc {
	case EncodingULaw:
		return 8000
	case EncodingPCM16:
		return 16000
	case EncodingPCM24:
		return 24000
	case EncodingMP3:
		return 44100
	default:
		return 8000
	}
}

// VoiceSettings controls voice characteristics.
type VoiceSettings struct {
	// Stability controls voice consistency (0.0-1.0).
	Stability float64

	// SimilarityBoost controls how closely the voice matches the
	// original sample (0.0-1.0).
	SimilarityBoost float64
}

// DefaultVoiceSettings returns sensible defaults for voice synthesis.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.5,
	}
}

// estimateDuration estimates playback duration for 8-bit μ-law audio.
func estimateDuration(byteCount, sampleRate int) time.Duration {
	if sampleRate == 0 {
		return 0
	}
	return time.Duration(float64(byteCount) / float64(sampleRate) * float64(time.Second))
}
