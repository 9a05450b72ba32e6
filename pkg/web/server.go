// Package web exposes the bridge over HTTP: the telephony webhook
// that returns TwiML, the call initiation API, and the websocket
// endpoint the media stream connects to.
package web

import (
	"context"
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/voicebridge/voicebridge/pkg/bridge"
	"github.com/voicebridge/voicebridge/pkg/telephony"
)

// Dialer initiates outbound calls. *telephony.Twilio satisfies it.
type Dialer interface {
	MakeCall(ctx context.Context, toNumber, twimlURL string) (*telephony.Call, error)
}

// Server is the bridge's HTTP and websocket front end.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	handler *bridge.Handler
	dialer  Dialer

	greeting   string
	webhookURL string
	wsBaseURL  string
}

// ServerConfig holds the collaborators for a Server.
type ServerConfig struct {
	Port    string
	Handler *bridge.Handler

	// Dialer is optional; without one, POST /calls returns 503.
	Dialer Dialer

	// Greeting is spoken when a call is answered. Empty means
	// telephony.DefaultGreeting.
	Greeting string

	// WebhookURL is the public base URL telephony webhooks hit.
	WebhookURL string

	// WSBaseURL is the public wss:// base URL for media streams.
	WSBaseURL string

	Logger *slog.Logger
}

// NewServer creates the front end and mounts all routes.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		port:       cfg.Port,
		logger:     logger.With("component", "web.server"),
		handler:    cfg.Handler,
		dialer:     cfg.Dialer,
		greeting:   cfg.Greeting,
		webhookURL: cfg.WebhookURL,
		wsBaseURL:  cfg.WSBaseURL,
	}

	app := fiber.New(fiber.Config{
		AppName:               "voicebridge",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	app.Get("/", s.handleHealth)
	app.Post("/twiml", s.handleTwiML)
	app.Post("/calls", s.handleInitiateCall)

	// WebSocket upgrade middleware
	app.Use("/media", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/media/:call_sid", websocket.New(s.handler.HandleMedia))

	s.app = app
	return s
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Serve accepts connections from an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// App returns the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleHealth reports service status and the active call count.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "ok",
		"service":      "voicebridge",
		"active_calls": s.handler.Registry().Len(),
	})
}

// handleTwiML answers the telephony webhook for an answered call with
// the TwiML that opens this call's media stream.
func (s *Server) handleTwiML(c *fiber.Ctx) error {
	callSID := c.FormValue("CallSid")
	if callSID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "CallSid is required",
		})
	}

	streamURL := s.wsBaseURL + "/media/" + callSID
	body, err := telephony.StreamTwiML(s.greeting, streamURL)
	if err != nil {
		s.logger.Error("twiml generation failed", "call_sid", callSID, "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	s.logger.Info("twiml served", "call_sid", callSID, "stream_url", streamURL)
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Send(body)
}

// handleInitiateCall dials an outbound call that will connect back to
// this bridge when answered.
func (s *Server) handleInitiateCall(c *fiber.Ctx) error {
	if s.dialer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "outbound calling is not configured",
		})
	}

	var req struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.BodyParser(&req); err != nil || req.PhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "phone_number is required",
		})
	}

	call, err := s.dialer.MakeCall(c.Context(), req.PhoneNumber, s.webhookURL+"/twiml")
	if err != nil {
		s.logger.Error("call initiation failed", "to", req.PhoneNumber, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to initiate call",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"call_sid": call.SID,
		"status":   call.Status,
	})
}
