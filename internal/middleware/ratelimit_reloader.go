package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/request"
)

// RateLimitReloader applies per-IP rate limiting backed by Redis. The rate
// itself lives in the database and is re-read on an interval, so operators
// can tighten or loosen limits without a deploy.
type RateLimitReloader struct {
	next        http.Handler
	redisClient *redis.Client
	store       limiter.Store
	repo        *database.RatelimitConfigRepository
	defaultRate string
	log         *zap.Logger
	interval    time.Duration

	mu      sync.RWMutex
	limited http.Handler
}

// NewRateLimitReloader builds the reloader. Returns nil when the Redis
// store cannot be created.
func NewRateLimitReloader(redisClient *redis.Client, repo *database.RatelimitConfigRepository, defaultRate string, log *zap.Logger, reloadInterval time.Duration) *RateLimitReloader {
	if defaultRate == "" {
		defaultRate = defaultRatelimitRate
	}
	// One store for the lifetime of the process; reloads only swap the
	// limiter wrapped around it
	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		log.Error("ratelimit_redis_store_failed", zap.Error(err))
		return nil
	}
	return &RateLimitReloader{
		redisClient: redisClient,
		store:       store,
		repo:        repo,
		defaultRate: defaultRate,
		log:         log,
		interval:    reloadInterval,
	}
}

// Middleware wires the reloader into a handler chain
func (rl *RateLimitReloader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		rl.next = next
		rl.rebuild(context.Background())
		return rl
	}
}

// Start re-reads the configured rate until ctx is cancelled. Call after
// Middleware() has been applied.
func (rl *RateLimitReloader) Start(ctx context.Context) {
	if rl.interval <= 0 {
		return
	}
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.rebuild(ctx)
		}
	}
}

// resolveRate returns the rate string to apply, seeding the table with the
// default when no row exists yet.
func (rl *RateLimitReloader) resolveRate(ctx context.Context) string {
	cfg, err := rl.repo.Get(ctx)
	if err != nil {
		rl.log.Warn("ratelimit_config_load_failed",
			zap.Error(err),
			zap.String("default_rate", rl.defaultRate),
		)
		return rl.defaultRate
	}
	if cfg != nil && cfg.Rate != "" {
		return cfg.Rate
	}
	if err := rl.repo.Set(ctx, &models.RatelimitConfig{Rate: rl.defaultRate}); err != nil {
		rl.log.Error("ratelimit_config_seed_failed",
			zap.Error(err),
			zap.String("default_rate", rl.defaultRate),
		)
	}
	return rl.defaultRate
}

func (rl *RateLimitReloader) rebuild(ctx context.Context) {
	if rl.next == nil {
		return
	}

	rateStr := rl.resolveRate(ctx)
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		rl.log.Error("ratelimit_rate_unparseable",
			zap.Error(err),
			zap.String("rate", rateStr),
			zap.String("default_rate", rl.defaultRate),
		)
		rate, err = limiter.NewRateFromFormatted(rl.defaultRate)
		if err != nil {
			rl.log.Error("ratelimit_default_rate_unparseable",
				zap.Error(err),
				zap.String("default_rate", rl.defaultRate),
			)
			return
		}
	}

	mw := stdlibmw.NewMiddleware(
		limiter.New(rl.store, rate),
		stdlibmw.WithKeyGetter(func(req *http.Request) string {
			return request.ClientIP(req)
		}),
	)
	wrapped := mw.Handler(rl.next)

	rl.mu.Lock()
	rl.limited = wrapped
	rl.mu.Unlock()
}

// ServeHTTP implements http.Handler.
func (rl *RateLimitReloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rl.mu.RLock()
	h := rl.limited
	rl.mu.RUnlock()
	if h != nil {
		h.ServeHTTP(w, req)
		return
	}
	if rl.next != nil {
		rl.next.ServeHTTP(w, req)
	}
}
