package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/voicebridge/voicebridge/pkg/segment"
	"github.com/voicebridge/voicebridge/pkg/session"
)

// segmentQueueDepth bounds in-flight utterances per call. The worker
// blocks the read loop when full rather than dropping audio.
const segmentQueueDepth = 16

// DefaultPollInterval is how often the silence trigger is re-checked
// between frame arrivals.
const DefaultPollInterval = 250 * time.Millisecond

// connState tracks a media connection through its lifecycle.
type connState int

const (
	stateAccepted connState = iota
	stateActive
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateAccepted:
		return "accepted"
	case stateActive:
		return "active"
	default:
		return "closed"
	}
}

// Handler owns active call sessions and runs the per-connection media
// loop. One Handler serves all calls; each connection gets its own
// session, pipeline worker, and silence poller.
type Handler struct {
	registry     *session.Registry
	engine       *segment.Engine
	pipeline     *Pipeline
	systemPrompt string
	maxTurns     int
	pollInterval time.Duration
	logger       *slog.Logger
}

// HandlerConfig holds the collaborators for a Handler.
type HandlerConfig struct {
	Registry *session.Registry
	Engine   *segment.Engine
	Pipeline *Pipeline

	// SystemPrompt seeds every session's transcript.
	SystemPrompt string

	// MaxTurns bounds each session's transcript window.
	// Zero means session.DefaultMaxTurns.
	MaxTurns int

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration

	Logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	registry := cfg.Registry
	if registry == nil {
		registry = session.NewRegistry()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = segment.NewEngine()
	}
	return &Handler{
		registry:     registry,
		engine:       engine,
		pipeline:     cfg.Pipeline,
		systemPrompt: cfg.SystemPrompt,
		maxTurns:     cfg.MaxTurns,
		pollInterval: poll,
		logger:       logger.With("component", "bridge.handler"),
	}
}

// Registry exposes the session registry for health reporting.
func (h *Handler) Registry() *session.Registry {
	return h.registry
}

// HandleMedia runs the media loop for one websocket connection. It
// blocks until the stream stops or the transport drops, then tears
// the session down. Designed to be mounted under a websocket upgrade
// route with the call SID as a path parameter.
func (h *Handler) HandleMedia(ws *websocket.Conn) {
	callID := ws.Params("call_sid")
	if callID == "" {
		h.logger.Warn("rejecting media connection without call SID")
		ws.Close()
		return
	}

	connID := uuid.NewString()[:8]
	logger := h.logger.With("call_sid", callID, "conn", connID)

	var opts []session.Option
	if h.maxTurns > 0 {
		opts = append(opts, session.WithMaxTurns(h.maxTurns))
	}
	sess := session.New(callID, h.systemPrompt, opts...)

	// A reconnect for the same call replaces the old session; the
	// orphaned connection drains against its closed session until
	// its transport notices.
	if prior := h.registry.Put(sess); prior != nil {
		prior.Close()
		logger.Warn("replaced existing session for call")
	}

	conn := newMediaConn(ws, logger)
	ctx, cancel := context.WithCancel(context.Background())

	// Pipeline worker: utterances for one call are strictly
	// sequential, so transcript turns stay ordered.
	segs := make(chan []byte, segmentQueueDepth)
	var workerWG sync.WaitGroup
	workerWG.Add(1)
	go func() {
		defer workerWG.Done()
		for seg := range segs {
			h.pipeline.ProcessSegment(ctx, sess, seg, conn)
		}
	}()

	// Silence poller: flushes a trailing utterance when the caller
	// goes quiet and no further frame arrives to trigger the check.
	pollDone := make(chan struct{})
	var pollWG sync.WaitGroup
	pollWG.Add(1)
	go func() {
		defer pollWG.Done()
		ticker := time.NewTicker(h.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pollDone:
				return
			case now := <-ticker.C:
				if d := h.engine.CheckSilence(sess, now); d.Dispatch {
					select {
					case segs <- d.Segment:
					case <-pollDone:
						return
					}
				}
			}
		}
	}()

	state := stateAccepted
	logger.Info("media connection accepted")

readLoop:
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			logger.Info("media connection dropped", "state", state.String(), "error", err)
			break
		}

		msg, err := ParseMessage(data)
		if err != nil {
			logger.Warn("ignoring malformed message", "error", err)
			continue
		}

		switch msg.Type {
		case EventStart:
			if state != stateAccepted {
				logger.Warn("ignoring duplicate start", "stream_sid", msg.StreamSID)
				continue
			}
			sess.SetStreamSID(msg.StreamSID)
			state = stateActive
			logger.Info("stream started", "stream_sid", msg.StreamSID)
		case EventMedia:
			if state != stateActive {
				continue
			}
			if d := h.engine.OnFrame(sess, msg.Payload, time.Now()); d.Dispatch {
				segs <- d.Segment
			}
		case EventStop:
			logger.Info("stream stopped")
			break readLoop
		default:
			// Unknown events are ignored for forward compatibility.
		}
	}

	// Teardown runs exactly once whether the stream stopped cleanly
	// or the transport dropped. The poller goes first so nothing new
	// enters the segment queue, then the worker drains what remains.
	state = stateClosed
	close(pollDone)
	pollWG.Wait()
	close(segs)
	cancel()
	workerWG.Wait()
	conn.close()
	h.registry.Remove(callID, sess)
	sess.Close()
	logger.Info("session closed", "active_sessions", h.registry.Len())
}
