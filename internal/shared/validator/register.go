package validator

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// GetValidator returns the validator instance from Gin binding
func GetValidator() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("cannot obtain validator engine")
	}
	return v, nil
}

// RegisterAll registers all common validators defined in this package
// Domain-specific validation (the structured field validators used by the
// public application form) lives in the application package instead.
func RegisterAll() error {
	v, err := GetValidator()
	if err != nil {
		return fmt.Errorf("get validator engine: %w", err)
	}

	if err := v.RegisterValidation("postalranges", ValidatePostalRanges); err != nil {
		return fmt.Errorf("register postalranges validator: %w", err)
	}

	slog.Info("common validators registered", "validators", "postalranges")
	return nil
}
