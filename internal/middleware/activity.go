package middleware

import (
	"log"
	"net/http"

	"github.com/graham-fleming/lifehub/internal/database"
)

// ActivityTracking records when an authenticated user last touched the API.
// The re-embedding worker reads this to prioritize active accounts.
func ActivityTracking(activityRepo *database.UserActivityRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r)
			if user != nil {
				if err := activityRepo.UpdateLastInteraction(r.Context(), user.ID); err != nil {
					// Activity tracking must never fail the request
					log.Printf("Failed to update user activity: %v", err)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
