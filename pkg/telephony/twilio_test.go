package telephony_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voicebridge/voicebridge/pkg/telephony"
)

func TestMakeCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC123/Calls.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Error("missing basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("To"); got != "+15551234567" {
			t.Errorf("To = %q", got)
		}
		if got := r.PostForm.Get("From"); got != "+15557654321" {
			t.Errorf("From = %q", got)
		}
		if got := r.PostForm.Get("Url"); got != "https://bridge.example.com/twiml" {
			t.Errorf("Url = %q", got)
		}
		w.Write([]byte(`{"sid": "CA999", "to": "+15551234567", "status": "queued"}`))
	}))
	defer srv.Close()

	client, err := telephony.NewTwilio(
		telephony.WithCredentials("AC123", "token"),
		telephony.WithFromNumber("+15557654321"),
		telephony.WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	call, err := client.MakeCall(context.Background(), "+15551234567", "https://bridge.example.com/twiml")
	if err != nil {
		t.Fatalf("make call: %v", err)
	}
	if call.SID != "CA999" {
		t.Errorf("sid = %q, want CA999", call.SID)
	}
	if call.Status != "queued" {
		t.Errorf("status = %q, want queued", call.Status)
	}
}

func TestHangupCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC123/Calls/CA999.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		r.ParseForm()
		if got := r.PostForm.Get("Status"); got != "completed" {
			t.Errorf("Status = %q, want completed", got)
		}
		w.Write([]byte(`{"sid": "CA999", "status": "completed"}`))
	}))
	defer srv.Close()

	client, _ := telephony.NewTwilio(
		telephony.WithCredentials("AC123", "token"),
		telephony.WithFromNumber("+15557654321"),
		telephony.WithBaseURL(srv.URL),
	)

	call, err := client.HangupCall(context.Background(), "CA999")
	if err != nil {
		t.Fatalf("hangup: %v", err)
	}
	if call.Status != "completed" {
		t.Errorf("status = %q, want completed", call.Status)
	}
}

func TestMakeCallAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": 21211, "message": "Invalid 'To' Phone Number", "status": 400}`))
	}))
	defer srv.Close()

	client, _ := telephony.NewTwilio(
		telephony.WithCredentials("AC123", "token"),
		telephony.WithFromNumber("+15557654321"),
		telephony.WithBaseURL(srv.URL),
	)

	_, err := client.MakeCall(context.Background(), "bogus", "https://bridge.example.com/twiml")
	var apiErr *telephony.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != 21211 || apiErr.StatusCode != 400 {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestNewTwilioValidation(t *testing.T) {
	t.Run("missing account SID", func(t *testing.T) {
		if _, err := telephony.NewTwilio(); !errors.Is(err, telephony.ErrNoAccountSID) {
			t.Errorf("expected ErrNoAccountSID, got %v", err)
		}
	})

	t.Run("missing auth token", func(t *testing.T) {
		_, err := telephony.NewTwilio(telephony.WithCredentials("AC123", ""))
		if !errors.Is(err, telephony.ErrNoAuthToken) {
			t.Errorf("expected ErrNoAuthToken, got %v", err)
		}
	})

	t.Run("missing from number", func(t *testing.T) {
		_, err := telephony.NewTwilio(telephony.WithCredentials("AC123", "token"))
		if !errors.Is(err, telephony.ErrNoPhoneNumber) {
			t.Errorf("expected ErrNoPhoneNumber, got %v", err)
		}
	})
}
