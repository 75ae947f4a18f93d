package models

import "time"

// CorsConfig is the stored CORS configuration row.
type CorsConfig struct {
	ConfigKey     string    `json:"config_key"`
	AllowedOrigin string    `json:"allowed_origin" validate:"required,origin_spec"` // "*" or comma-separated hosts / *suffix patterns
	AllowedRoutes string    `json:"allowed_routes" validate:"required,route_spec"`  // "*" or comma-separated routes
	AllowMethods  string    `json:"allow_methods,omitempty" validate:"max=512"`
	AllowHeaders  string    `json:"allow_headers,omitempty" validate:"max=1024"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
