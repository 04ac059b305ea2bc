package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// postalRangeRegex matches a comma-separated list of numeric postal code
	// spans as used on chapters.
	// Formats: "1000-1999" or "1000-1999,2500,3000-3099"
	postalRangeRegex = regexp.MustCompile(`^[0-9]{3,6}(-[0-9]{3,6})?(,[0-9]{3,6}(-[0-9]{3,6})?)*$`)
)

// ValidatePostalRanges validates the postal-code-ranges expression carried on
// chapter records.
func ValidatePostalRanges(fl validator.FieldLevel) bool {
	ranges := fl.Field().String()
	return postalRangeRegex.MatchString(ranges)
}
