package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/benvon/routecors/internal/cors"
	"github.com/benvon/routecors/internal/database"
	logpkg "github.com/benvon/routecors/internal/logger"
	"github.com/benvon/routecors/internal/models"
	"go.uber.org/zap"
)

// CorsConfigStore is the part of database.CorsConfigRepository the reloader needs.
type CorsConfigStore interface {
	Get(ctx context.Context) (*models.CorsConfig, error)
}

var _ CorsConfigStore = (*database.CorsConfigRepository)(nil)

// CORSReloader periodically reloads the CORS config from the database. Each reload builds
// a new immutable pipeline and swaps it in, so a request always sees a single snapshot.
type CORSReloader struct {
	store    CorsConfigStore
	fallback *cors.Pipeline
	log      *zap.Logger
	interval time.Duration
	current  atomic.Pointer[cors.Pipeline]
}

// NewCORSReloader creates a reloader. store may be nil, in which case fallback
// (the env/file configuration) is used for good.
func NewCORSReloader(store CorsConfigStore, fallback *cors.Config, log *zap.Logger, reloadInterval time.Duration) *CORSReloader {
	r := &CORSReloader{
		store:    store,
		fallback: cors.NewPipeline(fallback),
		log:      log,
		interval: reloadInterval,
	}
	r.current.Store(r.fallback)
	return r
}

// Middleware loads the current config and returns the CORS middleware bound to this reloader.
func (r *CORSReloader) Middleware() func(http.Handler) http.Handler {
	r.Reload(context.Background())
	return CORS(r, r.log)
}

// Pipeline implements PipelineSource.
func (r *CORSReloader) Pipeline() *cors.Pipeline {
	return r.current.Load()
}

// Start runs the reload loop until ctx is cancelled.
func (r *CORSReloader) Start(ctx context.Context) {
	if r.interval <= 0 || r.store == nil {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reload(ctx)
		}
	}
}

// Reload fetches the stored config once. A missing row selects the fallback; a read
// error or an invalid stored config keeps the pipeline currently in use.
func (r *CORSReloader) Reload(ctx context.Context) {
	if r.store == nil {
		return
	}
	stored, err := r.store.Get(ctx)
	if err != nil {
		r.log.Warn("cors_config_reload_failed", zap.String("error", logpkg.SanitizeError(err)))
		return
	}
	if stored == nil {
		if r.current.Swap(r.fallback) != r.fallback {
			r.log.Info("cors_config_reloaded", zap.String("source", "fallback"))
		}
		return
	}
	cfg, err := database.BuildCorsConfig(stored)
	if err != nil {
		r.log.Warn("cors_config_invalid_keeping_previous", zap.String("error", logpkg.SanitizeError(err)))
		return
	}
	r.current.Store(cors.NewPipeline(cfg))
	r.log.Debug("cors_config_reloaded",
		zap.String("source", "database"),
		zap.String("allowed_origin", cfg.Origins().String()),
		zap.String("allowed_routes", cfg.Routes().String()),
		zap.Time("updated_at", stored.UpdatedAt),
	)
}
