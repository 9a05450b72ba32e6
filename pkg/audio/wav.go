package audio

import (
	"bytes"
	"encoding/binary"
)

// TelephonySampleRate is the sample rate of Twilio media streams.
const TelephonySampleRate = 8000

// WAVFromPCM16 wraps mono PCM16 little-endian bytes in a minimal
// RIFF/WAVE container at the given sample rate.
func WAVFromPCM16(pcm []byte, sampleRate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	blockAlign := numChannels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// MulawToWAV expands a μ-law telephony segment into an 8kHz mono
// PCM16 WAV blob ready for the transcription API.
// Returns nil for an empty segment.
func MulawToWAV(mulaw []byte) []byte {
	if len(mulaw) == 0 {
		return nil
	}
	return WAVFromPCM16(DecodeMulaw(mulaw), TelephonySampleRate)
}
