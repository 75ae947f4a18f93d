package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benvon/routecors/internal/cors"
	"github.com/benvon/routecors/internal/models"
	"github.com/benvon/routecors/internal/validation"
)

const defaultCorsConfigKey = "default"

// CorsConfigRepository handles CORS configuration in the database.
type CorsConfigRepository struct {
	db *DB
}

// NewCorsConfigRepository creates a new CORS config repository.
func NewCorsConfigRepository(db *DB) *CorsConfigRepository {
	return &CorsConfigRepository{db: db}
}

// Get retrieves the default CORS config. It returns nil, nil when no row exists.
func (r *CorsConfigRepository) Get(ctx context.Context) (*models.CorsConfig, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT config_key, allowed_origin, allowed_routes, allow_methods, allow_headers, created_at, updated_at
		FROM cors_config WHERE config_key = $1
	`, defaultCorsConfigKey)
	c := &models.CorsConfig{}
	err := row.Scan(
		&c.ConfigKey,
		&c.AllowedOrigin,
		&c.AllowedRoutes,
		&c.AllowMethods,
		&c.AllowHeaders,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cors config: %w", err)
	}
	return c, nil
}

// Set validates and upserts the default CORS config.
func (r *CorsConfigRepository) Set(ctx context.Context, c *models.CorsConfig) error {
	c.AllowedOrigin = strings.TrimSpace(c.AllowedOrigin)
	c.AllowedRoutes = strings.TrimSpace(c.AllowedRoutes)
	if c.AllowedRoutes == "" {
		c.AllowedRoutes = cors.AnyValue
	}
	if err := validation.Validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", cors.ErrInvalidConfiguration, err)
	}
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cors_config (config_key, allowed_origin, allowed_routes, allow_methods, allow_headers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (config_key) DO UPDATE SET
			allowed_origin = EXCLUDED.allowed_origin,
			allowed_routes = EXCLUDED.allowed_routes,
			allow_methods = EXCLUDED.allow_methods,
			allow_headers = EXCLUDED.allow_headers,
			updated_at = EXCLUDED.updated_at
	`, defaultCorsConfigKey, c.AllowedOrigin, c.AllowedRoutes, c.AllowMethods, c.AllowHeaders, now, now)
	if err != nil {
		return fmt.Errorf("set cors config: %w", err)
	}
	return nil
}

// Delete removes the default CORS config so the service falls back to env/file configuration.
func (r *CorsConfigRepository) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cors_config WHERE config_key = $1`, defaultCorsConfigKey); err != nil {
		return fmt.Errorf("delete cors config: %w", err)
	}
	return nil
}

// BuildCorsConfig turns a stored row into a validated cors.Config.
func BuildCorsConfig(c *models.CorsConfig) (*cors.Config, error) {
	return cors.NewConfig(cors.Settings{
		AllowedOrigin: c.AllowedOrigin,
		AllowedRoutes: validation.RoutesValue(c.AllowedRoutes),
		AllowMethods:  c.AllowMethods,
		AllowHeaders:  c.AllowHeaders,
	})
}
