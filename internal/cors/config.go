package cors

// Settings is the raw, loosely typed CORS configuration as read from env, files or storage.
// A nil AllowedOrigin disables CORS handling; a nil AllowedRoutes allows every route.
type Settings struct {
	AllowedOrigin any
	AllowedRoutes any
	AllowMethods  string
	AllowHeaders  string
}

// Config is a validated, immutable CORS configuration. Build it once with NewConfig
// and share it between requests.
type Config struct {
	enabled      bool
	origins      OriginSpec
	routes       RouteSpec
	allowMethods string
	allowHeaders string
}

// NewConfig validates s and returns the resulting Config.
// Errors satisfy errors.Is(err, ErrInvalidConfiguration).
func NewConfig(s Settings) (*Config, error) {
	cfg := &Config{
		routes:       AnyRoute(),
		allowMethods: s.AllowMethods,
		allowHeaders: s.AllowHeaders,
	}
	if s.AllowedOrigin != nil {
		origins, err := ParseOriginSpec(s.AllowedOrigin)
		if err != nil {
			return nil, err
		}
		cfg.enabled = true
		cfg.origins = origins
	}
	if s.AllowedRoutes != nil {
		routes, err := ParseRouteSpec(s.AllowedRoutes)
		if err != nil {
			return nil, err
		}
		cfg.routes = routes
	}
	return cfg, nil
}

// Disabled returns a Config for which every evaluation is NotApplicable.
func Disabled() *Config {
	return &Config{routes: AnyRoute()}
}

// Enabled reports whether an allowed origin is configured.
func (c *Config) Enabled() bool { return c.enabled }

// Origins returns the configured origin spec.
func (c *Config) Origins() OriginSpec { return c.origins }

// Routes returns the configured route spec.
func (c *Config) Routes() RouteSpec { return c.routes }

// AllowMethods returns the Access-Control-Allow-Methods override, or "".
func (c *Config) AllowMethods() string { return c.allowMethods }

// AllowHeaders returns the Access-Control-Allow-Headers override, or "".
func (c *Config) AllowHeaders() string { return c.allowHeaders }
