package bridge

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/voicebridge/voicebridge/pkg/audio"
	"github.com/voicebridge/voicebridge/pkg/chat"
	"github.com/voicebridge/voicebridge/pkg/session"
	"github.com/voicebridge/voicebridge/pkg/stt"
	"github.com/voicebridge/voicebridge/pkg/tts"
)

// DefaultFallbackReply is spoken when reply generation fails, so the
// caller hears something rather than dead air.
const DefaultFallbackReply = "I'm sorry, I'm having trouble processing your request right now."

// Sink receives synthesized audio for delivery back to the caller.
type Sink interface {
	SendMedia(streamSID string, audio []byte) error
}

// Pipeline runs one utterance through transcription, reply
// generation, and synthesis. Failures at any stage are contained:
// they are logged and the utterance is abandoned, never surfaced to
// the connection.
type Pipeline struct {
	stt      stt.Provider
	chat     chat.Provider
	tts      tts.Provider
	fallback string
	logger   *slog.Logger
}

// PipelineConfig holds the providers and policy for a Pipeline.
type PipelineConfig struct {
	STT  stt.Provider
	Chat chat.Provider
	TTS  tts.Provider

	// FallbackReply overrides DefaultFallbackReply when non-empty.
	FallbackReply string

	Logger *slog.Logger
}

// NewPipeline creates a Pipeline from the given providers.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	fallback := cfg.FallbackReply
	if fallback == "" {
		fallback = DefaultFallbackReply
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		stt:      cfg.STT,
		chat:     cfg.Chat,
		tts:      cfg.TTS,
		fallback: fallback,
		logger:   logger.With("component", "bridge.pipeline"),
	}
}

// ProcessSegment runs one μ-law utterance through the full pipeline
// and delivers the synthesized reply to the sink. Each stage gates
// the next: a failed or empty transcription abandons the utterance,
// a failed reply falls back to a canned apology, and a failed
// synthesis drops the reply without breaking the session.
func (p *Pipeline) ProcessSegment(ctx context.Context, sess *session.Session, segment []byte, sink Sink) {
	start := time.Now()
	logger := p.logger.With("call_sid", sess.CallID())

	wav := audio.MulawToWAV(segment)
	if len(wav) == 0 {
		return
	}

	text, err := p.stt.Transcribe(ctx, wav)
	if err != nil {
		logger.Error("transcription failed", "error", err, "segment_bytes", len(segment))
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Debug("empty transcription, skipping", "segment_bytes", len(segment))
		return
	}
	sess.AppendTurn(session.RoleUser, text)

	reply, err := p.chat.Reply(ctx, sess.Turns())
	if err != nil {
		logger.Error("reply generation failed, using fallback", "error", err)
		reply = p.fallback
	} else if strings.TrimSpace(reply) == "" {
		logger.Warn("empty reply, using fallback")
		reply = p.fallback
	}
	sess.AppendTurn(session.RoleAssistant, reply)

	result, err := p.tts.Synthesize(ctx, reply)
	if err != nil {
		logger.Error("synthesis failed, dropping reply", "error", err)
		return
	}
	if len(result.Audio) == 0 {
		logger.Warn("synthesis returned no audio, dropping reply")
		return
	}

	// The session may have closed while an external call was in
	// flight; its connection is gone, so the result is discarded.
	if sess.Closed() {
		logger.Debug("session closed mid-pipeline, discarding reply")
		return
	}

	if err := sink.SendMedia(sess.StreamSID(), result.Audio); err != nil {
		logger.Error("media delivery failed", "error", err)
		return
	}

	logger.Info("utterance processed",
		"transcript_chars", len(text),
		"reply_chars", len(reply),
		"audio_bytes", len(result.Audio),
		"latency_ms", time.Since(start).Milliseconds(),
	)
}
