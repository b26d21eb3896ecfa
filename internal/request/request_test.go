package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/graham-fleming/lifehub/internal/models"
)

func TestUserFromContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(*http.Request) *http.Request
		validate func(*testing.T, *models.User)
	}{
		{
			name: "user in context",
			setup: func(r *http.Request) *http.Request {
				user := &models.User{
					ID:    uuid.New(),
					Email: "test@example.com",
				}
				return r.WithContext(WithUser(r.Context(), user))
			},
			validate: func(t *testing.T, user *models.User) {
				if user == nil {
					t.Fatal("Expected user to be present")
				}
				if user.Email != "test@example.com" {
					t.Errorf("Expected email 'test@example.com', got '%s'", user.Email)
				}
			},
		},
		{
			name: "no user in context",
			setup: func(r *http.Request) *http.Request {
				return r
			},
			validate: func(t *testing.T, user *models.User) {
				if user != nil {
					t.Errorf("Expected user to be nil, got %+v", user)
				}
			},
		},
		{
			name: "wrong type in context",
			setup: func(r *http.Request) *http.Request {
				ctx := context.WithValue(r.Context(), UserContextKey(), "not a user")
				return r.WithContext(ctx)
			},
			validate: func(t *testing.T, user *models.User) {
				if user != nil {
					t.Errorf("Expected user to be nil when wrong type in context, got %+v", user)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/test", nil)
			req = tt.setup(req)

			user := UserFromContext(req)

			if tt.validate != nil {
				tt.validate(t, user)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:   "falls back to remote addr",
			remote: "192.0.2.1:1234",
			want:   "192.0.2.1:1234",
		},
		{
			name:    "x-forwarded-for single value",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remote:  "192.0.2.1:1234",
			want:    "203.0.113.7",
		},
		{
			name:    "x-forwarded-for takes first hop",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 198.51.100.2"},
			remote:  "192.0.2.1:1234",
			want:    "203.0.113.7",
		},
		{
			name:    "x-real-ip used when no forwarded-for",
			headers: map[string]string{"X-Real-IP": " 203.0.113.9 "},
			remote:  "192.0.2.1:1234",
			want:    "203.0.113.9",
		},
		{
			name: "forwarded-for wins over real-ip",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.7",
				"X-Real-IP":       "203.0.113.9",
			},
			remote: "192.0.2.1:1234",
			want:   "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
