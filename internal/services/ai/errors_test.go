package ai

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsRateLimitError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "plain error", err: errors.New("connection refused"), want: false},
		{
			name: "api error with 429",
			err:  &APIError{StatusCode: 429, Type: "rate_limit_error"},
			want: true,
		},
		{
			name: "wrapped api error",
			err:  fmt.Errorf("embedding failed: %w", &APIError{StatusCode: 429}),
			want: true,
		},
		{
			name: "permanent 429 is not a rate limit",
			err:  &APIError{StatusCode: 429, IsPermanent: true},
			want: false,
		},
		{name: "string match 429", err: errors.New("got 429 from upstream"), want: true},
		{name: "string match rate limit", err: errors.New("rate limit exceeded"), want: true},
		{name: "string match too many requests", err: errors.New("too many requests"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsQuotaError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "plain error", err: errors.New("timeout"), want: false},
		{
			name: "permanent api error",
			err:  &APIError{StatusCode: 429, IsPermanent: true},
			want: true,
		},
		{
			name: "insufficient quota code",
			err:  &APIError{StatusCode: 429, Code: "insufficient_quota"},
			want: true,
		},
		{name: "string match quota", err: errors.New("monthly quota reached"), want: true},
		{name: "string match billing", err: errors.New("billing hard limit reached"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExtractAPIError(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		if got := ExtractAPIError(nil); got != nil {
			t.Errorf("Expected nil, got %v", got)
		}
	})

	t.Run("non rate limit error", func(t *testing.T) {
		t.Parallel()
		if got := ExtractAPIError(errors.New("connection reset")); got != nil {
			t.Errorf("Expected nil, got %v", got)
		}
	})

	t.Run("429 with embedded json", func(t *testing.T) {
		t.Parallel()
		err := errors.New(`status 429: {"message":"You exceeded your quota","type":"insufficient_quota","code":"insufficient_quota"}`)
		apiErr := ExtractAPIError(err)
		if apiErr == nil {
			t.Fatal("Expected APIError")
		}
		if apiErr.Code != "insufficient_quota" {
			t.Errorf("Expected code insufficient_quota, got %q", apiErr.Code)
		}
		if !apiErr.IsPermanent {
			t.Error("Expected quota error to be permanent")
		}
		if apiErr.RetryAfter == nil || *apiErr.RetryAfter != time.Hour {
			t.Errorf("Expected 1h retry-after for quota errors, got %v", apiErr.RetryAfter)
		}
	})

	t.Run("429 without json", func(t *testing.T) {
		t.Parallel()
		apiErr := ExtractAPIError(errors.New("got 429 from API"))
		if apiErr == nil {
			t.Fatal("Expected APIError")
		}
		if apiErr.StatusCode != 429 {
			t.Errorf("Expected status 429, got %d", apiErr.StatusCode)
		}
		if apiErr.RetryAfter == nil || *apiErr.RetryAfter != 60*time.Second {
			t.Errorf("Expected 60s retry-after, got %v", apiErr.RetryAfter)
		}
	})
}

func TestGetRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		attempt int
		want    time.Duration
	}{
		{
			name:    "generic error first attempt",
			err:     errors.New("timeout"),
			attempt: 0,
			want:    5 * time.Second,
		},
		{
			name:    "generic error backs off",
			err:     errors.New("timeout"),
			attempt: 2,
			want:    20 * time.Second,
		},
		{
			name:    "generic error capped at five minutes",
			err:     errors.New("timeout"),
			attempt: 10,
			want:    5 * time.Minute,
		},
		{
			name:    "rate limit first attempt",
			err:     &APIError{StatusCode: 429},
			attempt: 0,
			want:    60 * time.Second,
		},
		{
			name:    "rate limit capped at fifteen minutes",
			err:     &APIError{StatusCode: 429},
			attempt: 6,
			want:    15 * time.Minute,
		},
		{
			name:    "quota error first attempt",
			err:     &APIError{StatusCode: 429, IsPermanent: true},
			attempt: 0,
			want:    time.Hour,
		},
		{
			name:    "quota error capped at a day",
			err:     &APIError{StatusCode: 429, IsPermanent: true},
			attempt: 8,
			want:    24 * time.Hour,
		},
		{
			name:    "negative attempt treated as zero",
			err:     errors.New("timeout"),
			attempt: -3,
			want:    5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetRetryDelay(tt.err, tt.attempt); got != tt.want {
				t.Errorf("GetRetryDelay(%v, %d) = %v, want %v", tt.err, tt.attempt, got, tt.want)
			}
		})
	}
}
