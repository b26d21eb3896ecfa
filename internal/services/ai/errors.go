package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrRateLimited indicates the provider rate limit was exceeded
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExceeded indicates the provider quota was exhausted
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// APIError carries the details of a provider API failure
type APIError struct {
	Message     string
	Type        string
	Code        string
	StatusCode  int
	RetryAfter  *time.Duration
	IsPermanent bool // quota exhaustion, as opposed to a transient rate limit
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// IsRateLimitError reports whether err is a transient rate limit.
// Falls back to string matching for errors the SDK did not type.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 && !apiErr.IsPermanent
	}

	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

// IsQuotaError reports whether err is quota exhaustion, which does not
// resolve on its own and needs a much longer backoff.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsPermanent || apiErr.Code == "insufficient_quota"
	}

	msg := err.Error()
	return strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "billing")
}

// ExtractAPIError parses provider error details out of an error message.
// The OpenAI SDK embeds a JSON error body in the message text, so the 429
// path digs that out to distinguish quota exhaustion from rate limiting.
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "429") {
		return nil
	}

	apiErr := &APIError{
		StatusCode: 429,
		Message:    msg,
		Type:       "rate_limit_error",
	}

	if start := strings.Index(msg, "{"); start != -1 {
		raw := msg[start:]
		if end := strings.LastIndex(raw, "}"); end != -1 {
			var body struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			}
			if json.Unmarshal([]byte(raw[:end+1]), &body) == nil {
				apiErr.Message = body.Message
				apiErr.Type = body.Type
				apiErr.Code = body.Code
				if body.Code == "insufficient_quota" {
					apiErr.IsPermanent = true
				}
			}
		}
	}

	// Rate limits typically reset within a minute; quota errors need far longer
	retryAfter := 60 * time.Second
	if apiErr.IsPermanent {
		retryAfter = 1 * time.Hour
	}
	apiErr.RetryAfter = &retryAfter

	return apiErr
}

// GetRetryDelay returns the backoff before retry attempt n for the given
// error class. Exponential with per-class caps.
func GetRetryDelay(err error, attempt int) time.Duration {
	shift := attempt
	if shift > 10 {
		shift = 10
	}
	if shift < 0 {
		shift = 0
	}
	factor := time.Duration(1 << uint(shift))

	if IsQuotaError(err) {
		delay := time.Hour * factor
		if delay > 24*time.Hour {
			delay = 24 * time.Hour
		}
		return delay
	}

	if IsRateLimitError(err) {
		delay := 60 * time.Second * factor
		if delay > 15*time.Minute {
			delay = 15 * time.Minute
		}

		if apiErr := ExtractAPIError(err); apiErr != nil && apiErr.RetryAfter != nil {
			if *apiErr.RetryAfter > delay {
				delay = *apiErr.RetryAfter
			}
		}

		return delay
	}

	delay := 5 * time.Second * factor
	if delay > 5*time.Minute {
		delay = 5 * time.Minute
	}
	return delay
}
