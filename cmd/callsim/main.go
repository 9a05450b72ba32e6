// Command callsim simulates a telephony media stream against a
// running bridge. It connects to the media websocket, streams μ-law
// tone frames at the telephony cadence, and prints any synthesized
// replies, which makes it possible to exercise the whole pipeline
// without placing a real phone call.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/voicebridge/voicebridge/pkg/audio"
)

const (
	frameSamples  = 160 // 20ms at 8kHz
	frameInterval = 20 * time.Millisecond
)

type event struct {
	Event     string `json:"event"`
	StreamSID string `json:"streamSid,omitempty"`
	Media     *struct {
		Payload string `json:"payload"`
	} `json:"media,omitempty"`
}

func main() {
	var (
		baseURL  = flag.String("url", "ws://localhost:8080", "bridge base URL")
		callSID  = flag.String("call", "", "call SID (default: generated)")
		frames   = flag.Int("frames", 60, "number of audio frames to send")
		toneHz   = flag.Float64("tone", 440, "tone frequency in Hz")
		silence  = flag.Duration("gap", 1500*time.Millisecond, "silence after the tone before stop")
		waitTime = flag.Duration("wait", 10*time.Second, "how long to wait for replies")
	)
	flag.Parse()

	sid := *callSID
	if sid == "" {
		sid = "CA-sim-" + uuid.NewString()[:8]
	}

	wsURL := *baseURL + "/media/" + sid
	fmt.Printf("connecting to %s\n", wsURL)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	streamSID := "MZ-sim-" + uuid.NewString()[:8]
	if err := conn.WriteJSON(event{Event: "start", StreamSID: streamSID}); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		os.Exit(1)
	}

	// Reply listener
	replies := make(chan int)
	go func() {
		defer close(replies)
		for {
			var msg event
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Event != "media" || msg.Media == nil {
				continue
			}
			reply, err := base64.StdEncoding.DecodeString(msg.Media.Payload)
			if err != nil {
				fmt.Fprintf(os.Stderr, "bad reply payload: %v\n", err)
				continue
			}
			secs := float64(len(reply)) / float64(audio.TelephonySampleRate)
			fmt.Printf("reply: %d bytes of audio (%.1fs)\n", len(reply), secs)
			replies <- len(reply)
		}
	}()

	fmt.Printf("streaming %d frames of %.0fHz tone\n", *frames, *toneHz)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for i := 0; i < *frames; i++ {
		<-ticker.C
		frame := toneFrame(*toneHz, i)
		payload := base64.StdEncoding.EncodeToString(frame)
		data, _ := json.Marshal(map[string]any{
			"event": "media",
			"media": map[string]string{"payload": payload},
		})
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			fmt.Fprintf(os.Stderr, "frame %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	// Go quiet so the silence trigger flushes any trailing buffer,
	// then wait for the pipeline to answer.
	fmt.Printf("tone done, waiting %s for replies\n", *waitTime)
	time.Sleep(*silence)

	received := 0
	deadline := time.After(*waitTime)
wait:
	for {
		select {
		case _, ok := <-replies:
			if !ok {
				break wait
			}
			received++
		case <-deadline:
			break wait
		}
	}

	if err := conn.WriteJSON(event{Event: "stop"}); err != nil {
		fmt.Fprintf(os.Stderr, "stop: %v\n", err)
	}
	fmt.Printf("done: %d replies received\n", received)
}

// toneFrame synthesizes one 20ms μ-law frame of a sine tone.
func toneFrame(freq float64, frameIndex int) []byte {
	pcm := make([]byte, frameSamples*2)
	for i := 0; i < frameSamples; i++ {
		n := frameIndex*frameSamples + i
		sample := int16(8000 * math.Sin(2*math.Pi*freq*float64(n)/float64(audio.TelephonySampleRate)))
		pcm[2*i] = byte(sample)
		pcm[2*i+1] = byte(sample >> 8)
	}
	return audio.EncodeMulaw(pcm)
}
