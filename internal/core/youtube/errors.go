package youtube

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// reasonQuotaExceeded is the provider's reason code for an exhausted daily
// quota, reported as the first entry of a 403 body's error list.
const reasonQuotaExceeded = "quotaExceeded"

// QuotaError means the provider rejected a call because the account's quota
// is spent. Callers branch on it to show a "come back later" state instead of
// a generic failure.
type QuotaError struct{}

func (e *QuotaError) Error() string {
	return "youtube: daily quota exceeded"
}

// AuthError reports a rejected credential.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e == nil {
		return "youtube: authentication failed"
	}
	if e.Message != "" {
		return fmt.Sprintf("youtube: authentication failed: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube: authentication failed: status %d", e.StatusCode)
}

// APIError is returned for any other non-2xx provider response. Reasons
// carries the body's reason codes in server order; a malformed or empty body
// leaves it nil.
type APIError struct {
	StatusCode int
	Reasons    []string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "youtube: request failed"
	}
	if e.Message != "" {
		return fmt.Sprintf("youtube: request failed: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube: request failed: status %d", e.StatusCode)
}

// NetworkError wraps a transport-level failure before any response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil || e.Err == nil {
		return "youtube: network failure"
	}
	return fmt.Sprintf("youtube: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DecodeError reports a 2xx response whose body could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil || e.Err == nil {
		return "youtube: malformed response"
	}
	return fmt.Sprintf("youtube: malformed response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsQuotaExceeded reports whether a failure means the provider quota is
// exhausted. In priority order: an already-classified QuotaError; a 403 whose
// first reported reason is the quota-exhaustion code; any message containing
// "quota exceeded". Everything else, including credential failures and other
// 403 reasons, is not a quota failure.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}

	var quotaErr *QuotaError
	if errors.As(err, &quotaErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr != nil {
		if apiErr.StatusCode == http.StatusForbidden && len(apiErr.Reasons) > 0 && apiErr.Reasons[0] == reasonQuotaExceeded {
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "quota exceeded")
}

// HandleQuotaError collapses quota-exhaustion failures into QuotaError,
// discarding the original failure. Every other failure comes back unchanged
// so upstream handlers keep its type.
func HandleQuotaError(err error) error {
	if err == nil {
		return nil
	}
	if IsQuotaExceeded(err) {
		return &QuotaError{}
	}
	return err
}
