// Package telephony dials and controls phone calls through the
// Twilio REST API and generates the TwiML that connects an answered
// call to the media stream bridge.
package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/voicebridge/voicebridge/internal/httpc"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// Call is the subset of the call resource the bridge uses.
type Call struct {
	SID       string `json:"sid"`
	To        string `json:"to"`
	From      string `json:"from"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
}

// Twilio is a REST client for initiating and ending calls.
type Twilio struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewTwilio creates a telephony client.
func NewTwilio(opts ...Option) (*Twilio, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = twilioBaseURL
	}

	return &Twilio{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "telephony.twilio"),
		baseURL: baseURL,
	}, nil
}

// MakeCall dials toNumber from the configured number. When the call
// is answered the provider fetches TwiML from twimlURL to decide
// what happens next. Returns the provider's call SID.
func (t *Twilio) MakeCall(ctx context.Context, toNumber, twimlURL string) (*Call, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", t.baseURL, t.config.AccountSID)

	data := url.Values{}
	data.Set("To", toNumber)
	data.Set("From", t.config.FromNumber)
	data.Set("Url", twimlURL)
	data.Set("Method", http.MethodPost)

	var call Call
	if err := t.post(ctx, endpoint, data, &call); err != nil {
		return nil, fmt.Errorf("initiate call: %w", err)
	}

	t.logger.Info("call initiated", "call_sid", call.SID, "to", toNumber)
	return &call, nil
}

// HangupCall ends an in-progress call.
func (t *Twilio) HangupCall(ctx context.Context, callSID string) (*Call, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls/%s.json", t.baseURL, t.config.AccountSID, callSID)

	data := url.Values{}
	data.Set("Status", "completed")

	var call Call
	if err := t.post(ctx, endpoint, data, &call); err != nil {
		return nil, fmt.Errorf("end call: %w", err)
	}

	t.logger.Info("call ended", "call_sid", callSID, "status", call.Status)
	return &call, nil
}

// Close releases resources held by the client.
func (t *Twilio) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// post performs an authenticated form POST and decodes the response.
func (t *Twilio) post(ctx context.Context, endpoint string, data url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.config.AccountSID, t.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		var parsed struct {
			Code     int    `json:"code"`
			Message  string `json:"message"`
			MoreInfo string `json:"more_info"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Message
			apiErr.MoreInfo = parsed.MoreInfo
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
