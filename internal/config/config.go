// Package config loads bridge configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for tunable parameters.
const (
	DefaultPort           = "8080"
	DefaultMaxFrames      = 20
	DefaultSilenceTimeout = time.Second
	DefaultPollInterval   = 250 * time.Millisecond
	DefaultMaxTurns       = 40
	DefaultWebhookURL     = "http://localhost:8080"
)

// DefaultSystemPrompt seeds every call transcript.
const DefaultSystemPrompt = `You are a helpful voice assistant for phone calls.
Provide concise, clear, and helpful responses to user queries.
Keep responses brief since this is a voice interaction.
Be natural and conversational.
If the user says goodbye, thanks, or wants to end the call, acknowledge it briefly.`

// DefaultFallbackReply is spoken when reply generation fails.
const DefaultFallbackReply = "I'm sorry, I'm having trouble processing your request right now."

// Config holds all bridge settings.
type Config struct {
	// Server
	Port       string
	LogLevel   string
	WebhookURL string // public base URL Twilio can reach

	// Credentials
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	OpenAIAPIKey      string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// Turn segmentation
	MaxBufferedFrames int           // frame-count dispatch threshold
	SilenceTimeout    time.Duration // silence dispatch threshold
	PollInterval      time.Duration // how often the silence check runs

	// Conversation
	SystemPrompt  string
	FallbackReply string
	MaxTurns      int // transcript sliding-window bound
}

// Load reads configuration from the environment.
// Missing required credentials are an error: the bridge cannot
// recover from them per-call, so startup must fail.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       envOr("PORT", DefaultPort),
		LogLevel:   envOr("LOG_LEVEL", "info"),
		WebhookURL: envOr("WEBHOOK_URL", DefaultWebhookURL),

		ElevenLabsAPIKey:  os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: envOr("ELEVENLABS_VOICE_ID", "pNInz6obpgDQGcFmaJgB"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		MaxBufferedFrames: envIntOr("BRIDGE_MAX_FRAMES", DefaultMaxFrames),
		SilenceTimeout:    envDurationOr("BRIDGE_SILENCE_TIMEOUT", DefaultSilenceTimeout),
		PollInterval:      envDurationOr("BRIDGE_POLL_INTERVAL", DefaultPollInterval),

		SystemPrompt:  envOr("BRIDGE_SYSTEM_PROMPT", DefaultSystemPrompt),
		FallbackReply: envOr("BRIDGE_FALLBACK_REPLY", DefaultFallbackReply),
		MaxTurns:      envIntOr("BRIDGE_MAX_TURNS", DefaultMaxTurns),
	}

	var missing []string
	if cfg.ElevenLabsAPIKey == "" {
		missing = append(missing, "ELEVENLABS_API_KEY")
	}
	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if cfg.TwilioAccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if cfg.TwilioAuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if cfg.TwilioPhoneNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if len(missing) > 0 {
		return nil, errors.New("config: missing required environment variables: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

// WSBaseURL derives the public WebSocket base URL for media streams.
// Twilio requires wss:// in production; ngrok and similar tunnels
// terminate TLS for us.
func (c *Config) WSBaseURL() string {
	host := strings.TrimPrefix(strings.TrimPrefix(c.WebhookURL, "https://"), "http://")
	return "wss://" + host
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
