package telephony

import (
	"errors"
	"fmt"
)

// Sentinel errors for telephony configuration.
var (
	ErrNoAccountSID  = errors.New("telephony: account SID not configured")
	ErrNoAuthToken   = errors.New("telephony: auth token not configured")
	ErrNoPhoneNumber = errors.New("telephony: phone number not configured")
)

// APIError represents an error response from the telephony provider.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	MoreInfo   string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("telephony API error %d (status %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("telephony API error (status %d): %s", e.StatusCode, e.Message)
}
