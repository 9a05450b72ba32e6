// Command bridge runs the voice assistant bridge: it answers
// telephony webhooks, accepts media stream websockets, and turns
// caller speech into spoken assistant replies.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/voicebridge/voicebridge/internal/config"
	"github.com/voicebridge/voicebridge/internal/log"
	"github.com/voicebridge/voicebridge/pkg/bridge"
	"github.com/voicebridge/voicebridge/pkg/chat"
	"github.com/voicebridge/voicebridge/pkg/segment"
	"github.com/voicebridge/voicebridge/pkg/session"
	"github.com/voicebridge/voicebridge/pkg/stt"
	"github.com/voicebridge/voicebridge/pkg/telephony"
	"github.com/voicebridge/voicebridge/pkg/tts"
	"github.com/voicebridge/voicebridge/pkg/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Init("info")
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	sttProvider, err := stt.NewElevenLabs(
		stt.WithAPIKey(cfg.ElevenLabsAPIKey),
		stt.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("transcription provider init failed", "error", err)
		os.Exit(1)
	}
	defer sttProvider.Close()

	chatProvider, err := chat.NewOpenAI(
		chat.WithAPIKey(cfg.OpenAIAPIKey),
		chat.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("chat provider init failed", "error", err)
		os.Exit(1)
	}
	defer chatProvider.Close()

	ttsProvider, err := tts.NewElevenLabs(
		tts.WithAPIKey(cfg.ElevenLabsAPIKey),
		tts.WithVoice(cfg.ElevenLabsVoiceID),
		tts.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("synthesis provider init failed", "error", err)
		os.Exit(1)
	}
	defer ttsProvider.Close()

	dialer, err := telephony.NewTwilio(
		telephony.WithCredentials(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
		telephony.WithFromNumber(cfg.TwilioPhoneNumber),
		telephony.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("telephony client init failed", "error", err)
		os.Exit(1)
	}
	defer dialer.Close()

	handler := bridge.NewHandler(bridge.HandlerConfig{
		Registry: session.NewRegistry(),
		Engine: segment.NewEngine(
			segment.WithMaxFrames(cfg.MaxBufferedFrames),
			segment.WithSilenceTimeout(cfg.SilenceTimeout),
		),
		Pipeline: bridge.NewPipeline(bridge.PipelineConfig{
			STT:           sttProvider,
			Chat:          chatProvider,
			TTS:           ttsProvider,
			FallbackReply: cfg.FallbackReply,
			Logger:        log.L(),
		}),
		SystemPrompt: cfg.SystemPrompt,
		MaxTurns:     cfg.MaxTurns,
		PollInterval: cfg.PollInterval,
		Logger:       log.L(),
	})

	server := web.NewServer(web.ServerConfig{
		Port:       cfg.Port,
		Handler:    handler,
		Dialer:     dialer,
		WebhookURL: cfg.WebhookURL,
		WSBaseURL:  cfg.WSBaseURL(),
		Logger:     log.L(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("voicebridge started", "port", cfg.Port, "webhook_url", cfg.WebhookURL)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}
}
