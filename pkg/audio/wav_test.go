package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWAVFromPCM16(t *testing.T) {
	pcm := make([]byte, 320)
	wav := WAVFromPCM16(pcm, TelephonySampleRate)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("wav length = %d, want %d", len(wav), 44+len(pcm))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE magic")
	}

	if ch := binary.LittleEndian.Uint16(wav[22:24]); ch != 1 {
		t.Errorf("channels = %d, want 1", ch)
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 8000 {
		t.Errorf("sample rate = %d, want 8000", rate)
	}
	if bits := binary.LittleEndian.Uint16(wav[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d, want 16", bits)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); int(size) != len(pcm) {
		t.Errorf("data size = %d, want %d", size, len(pcm))
	}
}

func TestMulawToWAV(t *testing.T) {
	t.Run("empty segment yields nil", func(t *testing.T) {
		if got := MulawToWAV(nil); got != nil {
			t.Errorf("expected nil, got %d bytes", len(got))
		}
	})

	t.Run("segment expands to 2x plus header", func(t *testing.T) {
		seg := make([]byte, 3200) // 20 frames of 160 bytes
		wav := MulawToWAV(seg)
		if len(wav) != 44+6400 {
			t.Errorf("wav length = %d, want %d", len(wav), 44+6400)
		}
	})
}
