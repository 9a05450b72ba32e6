package bridge

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMessage(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		msg, err := ParseMessage([]byte(`{"event": "start", "streamSid": "MZ123"}`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if msg.Type != EventStart {
			t.Errorf("type = %s, want start", msg.Type)
		}
		if msg.StreamSID != "MZ123" {
			t.Errorf("streamSid = %q, want MZ123", msg.StreamSID)
		}
	})

	t.Run("media", func(t *testing.T) {
		frame := []byte{0xFF, 0x7F, 0x00, 0x80}
		payload := base64.StdEncoding.EncodeToString(frame)
		msg, err := ParseMessage([]byte(`{"event": "media", "media": {"payload": "` + payload + `"}}`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if msg.Type != EventMedia {
			t.Errorf("type = %s, want media", msg.Type)
		}
		if string(msg.Payload) != string(frame) {
			t.Errorf("payload = %v, want %v", msg.Payload, frame)
		}
	})

	t.Run("stop", func(t *testing.T) {
		msg, err := ParseMessage([]byte(`{"event": "stop"}`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if msg.Type != EventStop {
			t.Errorf("type = %s, want stop", msg.Type)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		msg, err := ParseMessage([]byte(`{"event": "mark"}`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if msg.Type != EventUnknown {
			t.Errorf("type = %s, want unknown", msg.Type)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := ParseMessage([]byte(`{not json`)); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})

	t.Run("media without payload", func(t *testing.T) {
		if _, err := ParseMessage([]byte(`{"event": "media"}`)); !errors.Is(err, ErrMissingPayload) {
			t.Errorf("expected ErrMissingPayload, got %v", err)
		}
	})

	t.Run("media with invalid base64", func(t *testing.T) {
		if _, err := ParseMessage([]byte(`{"event": "media", "media": {"payload": "!!!"}}`)); err == nil {
			t.Error("expected error for invalid base64")
		}
	})
}

func TestEncodeMedia(t *testing.T) {
	audio := []byte{0x01, 0x02, 0x03}
	data := EncodeMedia("MZ456", audio)

	var out struct {
		Event     string `json:"event"`
		StreamSID string `json:"streamSid"`
		Media     struct {
			Payload string `json:"payload"`
		} `json:"media"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Event != "media" {
		t.Errorf("event = %q, want media", out.Event)
	}
	if out.StreamSID != "MZ456" {
		t.Errorf("streamSid = %q, want MZ456", out.StreamSID)
	}
	decoded, err := base64.StdEncoding.DecodeString(out.Media.Payload)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if string(decoded) != string(audio) {
		t.Errorf("payload = %v, want %v", decoded, audio)
	}
}

func TestEncodeMediaRoundTrip(t *testing.T) {
	audio := []byte{0xFF, 0x00, 0x7F}
	msg, err := ParseMessage(EncodeMedia("MZ789", audio))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if msg.Type != EventMedia || msg.StreamSID != "MZ789" || string(msg.Payload) != string(audio) {
		t.Errorf("round trip mismatch: %+v", msg)
	}
}
