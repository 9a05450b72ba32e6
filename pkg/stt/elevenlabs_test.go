package stt_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/voicebridge/voicebridge/pkg/stt"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech-to-text" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Error("missing API key header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("model_id"); got != "scribe_v1" {
			t.Errorf("model_id = %q, want scribe_v1", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "hello there"}`))
	}))
	defer srv.Close()

	provider, err := stt.NewElevenLabs(
		stt.WithAPIKey("test-key"),
		stt.WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	defer provider.Close()

	text, err := provider.Transcribe(context.Background(), []byte("RIFFfake"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hello there" {
		t.Errorf("text = %q, want %q", text, "hello there")
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	provider, err := stt.NewElevenLabs(stt.WithAPIKey("k"))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := provider.Transcribe(context.Background(), nil); !errors.Is(err, stt.ErrEmptyAudio) {
		t.Errorf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestTranscribeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"text": "second try"}`))
	}))
	defer srv.Close()

	provider, _ := stt.NewElevenLabs(
		stt.WithAPIKey("k"),
		stt.WithBaseURL(srv.URL),
		stt.WithRetry(2, 0),
	)

	text, err := provider.Transcribe(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "second try" {
		t.Errorf("text = %q", text)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": {"message": "invalid key"}}`))
	}))
	defer srv.Close()

	provider, _ := stt.NewElevenLabs(
		stt.WithAPIKey("bad"),
		stt.WithBaseURL(srv.URL),
	)

	_, err := provider.Transcribe(context.Background(), []byte("audio"))
	var apiErr *stt.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 401 || apiErr.Message != "invalid key" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.IsRetryable() {
		t.Error("401 should not be retryable")
	}
}

func TestNewElevenLabsRequiresAPIKey(t *testing.T) {
	if _, err := stt.NewElevenLabs(); !errors.Is(err, stt.ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}
