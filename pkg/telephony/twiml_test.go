package telephony_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/voicebridge/voicebridge/pkg/telephony"
)

func TestStreamTwiML(t *testing.T) {
	body, err := telephony.StreamTwiML("Welcome!", "wss://bridge.example.com/media/CA123")
	if err != nil {
		t.Fatalf("twiml: %v", err)
	}

	doc := string(body)
	if !strings.HasPrefix(doc, "<?xml") {
		t.Error("missing XML declaration")
	}

	var parsed struct {
		XMLName xml.Name `xml:"Response"`
		Say     string   `xml:"Say"`
		Start   struct {
			Stream struct {
				URL   string `xml:"url,attr"`
				Track string `xml:"track,attr"`
			} `xml:"Stream"`
		} `xml:"Start"`
		Pause struct {
			Length int `xml:"length,attr"`
		} `xml:"Pause"`
	}
	if err := xml.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if parsed.Say != "Welcome!" {
		t.Errorf("Say = %q", parsed.Say)
	}
	if parsed.Start.Stream.URL != "wss://bridge.example.com/media/CA123" {
		t.Errorf("stream url = %q", parsed.Start.Stream.URL)
	}
	if parsed.Start.Stream.Track != "inbound_track" {
		t.Errorf("track = %q, want inbound_track", parsed.Start.Stream.Track)
	}
	if parsed.Pause.Length != 3600 {
		t.Errorf("pause = %d, want 3600", parsed.Pause.Length)
	}
}

func TestStreamTwiMLDefaultGreeting(t *testing.T) {
	body, err := telephony.StreamTwiML("", "wss://bridge.example.com/media/CA123")
	if err != nil {
		t.Fatalf("twiml: %v", err)
	}
	if !strings.Contains(string(body), telephony.DefaultGreeting) {
		t.Error("expected default greeting")
	}
}

func TestStreamTwiMLEscapesGreeting(t *testing.T) {
	body, err := telephony.StreamTwiML("Tom & Jerry <show>", "wss://x.example.com/media/CA1")
	if err != nil {
		t.Fatalf("twiml: %v", err)
	}
	doc := string(body)
	if strings.Contains(doc, "Tom & Jerry <show>") {
		t.Error("greeting was not escaped")
	}
	if !strings.Contains(doc, "Tom &amp; Jerry") {
		t.Error("expected escaped ampersand")
	}
}
