package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/database"
)

// CORSReloader serves CORS headers from a database-backed origin list,
// re-read on an interval so new frontends can be allowed at runtime.
type CORSReloader struct {
	next     http.Handler
	repo     *database.CorsConfigRepository
	fallback string // FRONTEND_URL, used when no row exists
	log      *zap.Logger
	interval time.Duration

	mu     sync.RWMutex
	corsed http.Handler
}

// NewCORSReloader builds the reloader
func NewCORSReloader(repo *database.CorsConfigRepository, frontendURLFallback string, log *zap.Logger, reloadInterval time.Duration) *CORSReloader {
	return &CORSReloader{
		repo:     repo,
		fallback: strings.TrimSpace(frontendURLFallback),
		log:      log,
		interval: reloadInterval,
	}
}

// Middleware wires the reloader into a handler chain
func (cr *CORSReloader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		cr.next = next
		cr.rebuild(context.Background())
		return cr
	}
}

// Start re-reads the origin list until ctx is cancelled. Call after
// Middleware() has been applied.
func (cr *CORSReloader) Start(ctx context.Context) {
	if cr.interval <= 0 {
		return
	}
	ticker := time.NewTicker(cr.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cr.rebuild(ctx)
		}
	}
}

func (cr *CORSReloader) rebuild(ctx context.Context) {
	if cr.next == nil {
		return
	}

	origins := database.AllowedOriginsSlice(cr.fallback)
	allowCreds := true
	maxAge := 86400

	cfg, err := cr.repo.Get(ctx)
	if err == nil && cfg != nil {
		origins = database.AllowedOriginsSlice(cfg.AllowedOrigins)
		allowCreds = cfg.AllowCredentials
		maxAge = cfg.MaxAge
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: allowCreds,
		MaxAge:           maxAge,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	cr.mu.Lock()
	cr.corsed = c.Handler(cr.next)
	cr.mu.Unlock()
}

// ServeHTTP implements http.Handler.
func (cr *CORSReloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	cr.mu.RLock()
	h := cr.corsed
	cr.mu.RUnlock()
	if h != nil {
		h.ServeHTTP(w, req)
		return
	}
	if cr.next != nil {
		cr.next.ServeHTTP(w, req)
	}
}
