package cors

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is matched by every error returned while building a Config.
var ErrInvalidConfiguration = errors.New("invalid cors configuration")

// ConfigError describes a rejected configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid cors configuration: %s %s (got %T %v)", e.Field, e.Reason, e.Value, e.Value)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// IsInvalidConfiguration checks if err was caused by a rejected configuration value
func IsInvalidConfiguration(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidConfiguration)
}
