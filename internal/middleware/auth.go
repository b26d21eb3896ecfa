package middleware

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/request"
	"github.com/graham-fleming/lifehub/internal/services/oidc"
)

// UserFromContext extracts the user from the request context
func UserFromContext(r *http.Request) *models.User {
	return request.UserFromContext(r)
}

// Auth creates authentication middleware that validates JWT tokens.
// Requests without a valid token are rejected.
func Auth(db *database.DB, oidcProvider *oidc.Provider, jwksManager *oidc.JWKSManager, providerName string) func(http.Handler) http.Handler {
	resolve := resolveUser(db, oidcProvider, jwksManager, providerName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			user, status, msg := resolve(r, authHeader)
			if user == nil {
				respondError(w, status, msg)
				return
			}

			ctx := request.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a user when a token is present but lets the
// request through without one. Handlers see a nil user and serve the
// guest dataset. An invalid token is still rejected rather than being
// silently downgraded to guest access.
func OptionalAuth(db *database.DB, oidcProvider *oidc.Provider, jwksManager *oidc.JWKSManager, providerName string) func(http.Handler) http.Handler {
	resolve := resolveUser(db, oidcProvider, jwksManager, providerName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, status, msg := resolve(r, authHeader)
			if user == nil {
				respondError(w, status, msg)
				return
			}

			ctx := request.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveUser returns a function that turns an Authorization header into a
// user, creating the account on first login. A nil user return carries the
// status code and message to respond with.
func resolveUser(db *database.DB, oidcProvider *oidc.Provider, jwksManager *oidc.JWKSManager, providerName string) func(*http.Request, string) (*models.User, int, string) {
	return func(r *http.Request, authHeader string) (*models.User, int, string) {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, http.StatusUnauthorized, "Invalid Authorization header format"
		}

		tokenString := parts[1]
		ctx := r.Context()

		oidcConfig, err := oidcProvider.GetConfig(ctx, providerName)
		if err != nil {
			return nil, http.StatusInternalServerError, "Failed to get OIDC configuration"
		}
		if oidcConfig.JWKSUrl == nil {
			return nil, http.StatusInternalServerError, "JWKS URL not configured"
		}

		verifier := oidc.NewVerifier(jwksManager, oidcConfig.Issuer)
		claims, err := verifier.Verify(ctx, tokenString, *oidcConfig.JWKSUrl)
		if err != nil {
			log.Printf("Token verification failed: %v (issuer: %s)", err, oidcConfig.Issuer)
			return nil, http.StatusUnauthorized, "Invalid or expired token"
		}

		userRepo := database.NewUserRepository(db)
		user, err := userRepo.GetByProviderID(ctx, claims.Sub)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				user = &models.User{
					ID:            uuid.New(),
					Email:         claims.Email,
					ProviderID:    &claims.Sub,
					Name:          &claims.Name,
					EmailVerified: true,
				}
				if err := userRepo.Create(ctx, user); err != nil {
					return nil, http.StatusInternalServerError, "Failed to create user"
				}
			} else {
				log.Printf("Database error while fetching user: %v", err)
				return nil, http.StatusInternalServerError, "Database error"
			}
		} else {
			updateNeeded := false
			if user.Email != claims.Email {
				user.Email = claims.Email
				updateNeeded = true
			}
			if (user.Name == nil && claims.Name != "") || (user.Name != nil && *user.Name != claims.Name) {
				name := claims.Name
				user.Name = &name
				updateNeeded = true
			}
			if updateNeeded {
				if err := userRepo.Update(ctx, user); err != nil {
					log.Printf("Failed to refresh user profile: %v", err)
				}
			}
		}

		return user, 0, ""
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
