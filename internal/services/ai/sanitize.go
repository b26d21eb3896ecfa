package ai

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Typed context keys so debug logging metadata cannot collide with other
// packages' string keys.
type contextKey string

const (
	userIDContextKey    contextKey = "user_id"
	requestIDContextKey contextKey = "request_id"
)

// UserIDContextKey returns the context key for user ID
func UserIDContextKey() contextKey {
	return userIDContextKey
}

// RequestIDContextKey returns the context key for request ID
func RequestIDContextKey() contextKey {
	return requestIDContextKey
}

const (
	// MaxPreviewLength caps preview strings in normal logs
	MaxPreviewLength = 200
	// MaxDebugContentLength caps previews when debug logging is on
	MaxDebugContentLength = 10000
	// RedactedValue replaces sensitive data in logs
	RedactedValue = "[REDACTED]"
)

// SanitizeAPIKey masks an API key, keeping only the first and last four
// characters visible.
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return RedactedValue
	}
	return apiKey[:4] + RedactedValue + apiKey[len(apiKey)-4:]
}

// SanitizePrompt builds a log-safe preview of a prompt. Control characters
// are stripped even in fullLog mode to prevent log injection.
func SanitizePrompt(prompt string, fullLog bool) string {
	if prompt == "" {
		return ""
	}
	limit := MaxPreviewLength
	if fullLog {
		limit = MaxDebugContentLength
	}
	return logPreview(prompt, limit)
}

// SanitizeResponse builds a log-safe preview of a model response
func SanitizeResponse(response string, fullLog bool) string {
	return SanitizePrompt(response, fullLog)
}

func logPreview(s string, limit int) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsPrint(r), r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(r)
		}
	}
	s = b.String()

	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// ExtractRequestID pulls the request ID out of ctx, if one was attached
func ExtractRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// ExtractUserID pulls the user ID out of ctx, accepting either a string
// or anything with a String method (uuid.UUID in practice).
func ExtractUserID(ctx context.Context) string {
	switch id := ctx.Value(userIDContextKey).(type) {
	case string:
		return id
	case interface{ String() string }:
		return id.String()
	}
	return ""
}
