package bridge

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 8
)

// mediaConn wraps a websocket connection with a single-writer pump so
// the pipeline worker and control messages never interleave writes.
type mediaConn struct {
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func newMediaConn(ws *websocket.Conn, logger *slog.Logger) *mediaConn {
	c := &mediaConn{
		ws:     ws,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go c.writePump()
	return c
}

// SendMedia queues a synthesized audio message for delivery. It is a
// no-op after the connection has closed.
func (c *mediaConn) SendMedia(streamSID string, audio []byte) error {
	msg := EncodeMedia(streamSID, audio)
	select {
	case c.send <- msg:
	case <-c.done:
		c.logger.Debug("dropping media for closed connection", "bytes", len(audio))
	}
	return nil
}

// writePump is the only goroutine allowed to write to the socket.
func (c *mediaConn) writePump() {
	for {
		select {
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Warn("websocket write failed", "error", err)
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// close stops the pump. Idempotent; safe from any goroutine.
func (c *mediaConn) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Verify mediaConn satisfies the pipeline's delivery interface.
var _ Sink = (*mediaConn)(nil)
