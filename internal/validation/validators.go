package validation

import (
	"fmt"

	"github.com/benvon/routecors/internal/cors"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("origin_spec", validateOriginSpec); err != nil {
		panic(fmt.Sprintf("failed to register origin_spec validator: %v", err))
	}
	if err := Validate.RegisterValidation("route_spec", validateRouteSpec); err != nil {
		panic(fmt.Sprintf("failed to register route_spec validator: %v", err))
	}
}

// validateOriginSpec checks that a string parses as a cors.OriginSpec
func validateOriginSpec(fl validator.FieldLevel) bool {
	_, err := cors.ParseOriginSpec(fl.Field().String())
	return err == nil
}

// validateRouteSpec checks the stored routes form: "*" or a comma-separated list
func validateRouteSpec(fl validator.FieldLevel) bool {
	_, err := cors.ParseRouteSpec(RoutesValue(fl.Field().String()))
	return err == nil
}

// RoutesValue converts the stored routes column into a value cors.ParseRouteSpec accepts.
// A value with separators but no routes (",") is passed through as a string so that
// ParseRouteSpec rejects it instead of yielding an empty list that matches nothing.
func RoutesValue(raw string) any {
	if raw == cors.AnyValue {
		return cors.AnyValue
	}
	routes := SplitList(raw)
	if len(routes) == 0 {
		return raw
	}
	return routes
}
