package telephony

import (
	"encoding/xml"
	"fmt"
)

// DefaultGreeting is spoken as soon as the call is answered, before
// the media stream opens.
const DefaultGreeting = "Hello! I'm your AI voice assistant. How can I help you today?"

// keepAlivePauseSeconds holds the call open while the conversation
// runs over the media stream.
const keepAlivePauseSeconds = 3600

type twimlStream struct {
	URL   string `xml:"url,attr"`
	Track string `xml:"track,attr"`
}

type twimlStart struct {
	Stream twimlStream `xml:"Stream"`
}

type twimlPause struct {
	Length int `xml:"length,attr"`
}

type twimlResponse struct {
	XMLName xml.Name   `xml:"Response"`
	Say     string     `xml:"Say"`
	Start   twimlStart `xml:"Start"`
	Pause   twimlPause `xml:"Pause"`
}

// StreamTwiML builds the voice response that greets the caller,
// starts a media stream of the caller's audio to streamURL, and
// pauses to keep the call open. streamURL must be the bridge's
// websocket endpoint for this call.
func StreamTwiML(greeting, streamURL string) ([]byte, error) {
	if greeting == "" {
		greeting = DefaultGreeting
	}

	doc := twimlResponse{
		Say: greeting,
		Start: twimlStart{
			Stream: twimlStream{
				URL: streamURL,
				// Only the caller's side feeds the transcriber.
				Track: "inbound_track",
			},
		},
		Pause: twimlPause{Length: keepAlivePauseSeconds},
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("telephony: marshal twiml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
