// Package bridge is the core of the voice assistant: it owns the
// media-stream connection lifecycle, decides when buffered caller
// audio forms an utterance, and drives each utterance through
// transcription, reply generation, and speech synthesis.
package bridge

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// EventType identifies an inbound streaming protocol message.
type EventType int

const (
	// EventUnknown is any event type this bridge does not recognize.
	// Unknown events are ignored for forward compatibility.
	EventUnknown EventType = iota

	// EventStart begins a media stream for a call.
	EventStart

	// EventMedia carries one base64-encoded audio frame.
	EventMedia

	// EventStop ends the media stream.
	EventStop
)

// String returns the wire name of the event type.
func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventMedia:
		return "media"
	case EventStop:
		return "stop"
	default:
		return "unknown"
	}
}

// ErrMissingPayload indicates a media event without audio.
var ErrMissingPayload = errors.New("bridge: media event missing payload")

// Message is one decoded inbound streaming message.
type Message struct {
	Type      EventType
	StreamSID string

	// Payload holds the decoded audio frame for media events.
	Payload []byte
}

// envelope is the JSON wire shape shared by all stream events.
type envelope struct {
	Event     string `json:"event"`
	StreamSID string `json:"streamSid,omitempty"`
	Media     *struct {
		Payload string `json:"payload"`
	} `json:"media,omitempty"`
}

// ParseMessage decodes one inbound streaming message. Media payloads
// are base64-decoded before returning. Unrecognized event names parse
// as EventUnknown; malformed JSON or an undecodable payload is an
// error and the message should be ignored.
func ParseMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Message{}, fmt.Errorf("bridge: decode message: %w", err)
	}

	msg := Message{StreamSID: env.StreamSID}

	switch env.Event {
	case "start":
		msg.Type = EventStart
	case "media":
		msg.Type = EventMedia
		if env.Media == nil || env.Media.Payload == "" {
			return Message{}, ErrMissingPayload
		}
		frame, err := base64.StdEncoding.DecodeString(env.Media.Payload)
		if err != nil {
			return Message{}, fmt.Errorf("bridge: decode media payload: %w", err)
		}
		msg.Payload = frame
	case "stop":
		msg.Type = EventStop
	default:
		msg.Type = EventUnknown
	}

	return msg, nil
}

// EncodeMedia builds the outbound media message for synthesized
// audio, tagged with the stream it belongs to.
func EncodeMedia(streamSID string, audio []byte) []byte {
	out := struct {
		Event     string `json:"event"`
		StreamSID string `json:"streamSid"`
		Media     struct {
			Payload string `json:"payload"`
		} `json:"media"`
	}{
		Event:     "media",
		StreamSID: streamSID,
	}
	out.Media.Payload = base64.StdEncoding.EncodeToString(audio)

	data, _ := json.Marshal(out)
	return data
}
