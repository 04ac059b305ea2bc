package application

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ValidationResult is the structured outcome of a single field validation.
// Validators never fail with an error on invalid input; invalidity is data.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
	Sanitized string `json:"sanitized,omitempty"`
}

// BirthDateResult adds the computed age to the validation outcome.
type BirthDateResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Age     int    `json:"age,omitempty"`
}

// EmailValidationResult adds the duplicate-member check outcome.
type EmailValidationResult struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message,omitempty"`
	Exists   bool   `json:"exists,omitempty"`
	MemberID uint32 `json:"member_id,omitempty"`
}

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// Postal code formats per country; unknown countries accept anything
	// non-empty.
	postalCodeRegexes = map[string]*regexp.Regexp{
		"netherlands": regexp.MustCompile(`^[1-9][0-9]{3}\s?[A-Z]{2}$`),
		"germany":     regexp.MustCompile(`^[0-9]{5}$`),
		"france":      regexp.MustCompile(`^[0-9]{5}$`),
		"belgium":     regexp.MustCompile(`^[0-9]{4}$`),
	}

	phoneRegexes = map[string]*regexp.Regexp{
		"netherlands": regexp.MustCompile(`^(\+31|0031|0)[1-9][0-9]{8}$`),
		"germany":     regexp.MustCompile(`^(\+49|0049|0)[1-9][0-9]{6,11}$`),
		"france":      regexp.MustCompile(`^(\+33|0033|0)[1-9][0-9]{8}$`),
		"belgium":     regexp.MustCompile(`^(\+32|0032|0)[1-9][0-9]{7,8}$`),
	}
	genericPhoneRegex = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	phoneSeparators   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

	nameRegex        = regexp.MustCompile(`^[\p{L}\p{M}][\p{L}\p{M}\s.'-]*$`)
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	eventHandlerRegex = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// ValidateEmailFormat checks the shape of an email address. The duplicate
// check against existing members happens in the service, which wraps this.
func ValidateEmailFormat(email string) ValidationResult {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationResult{Valid: false, Message: "Email address is required"}
	}
	if !strings.Contains(email, "@") || !emailRegex.MatchString(email) {
		return ValidationResult{Valid: false, Message: "Email address format is invalid"}
	}
	return ValidationResult{Valid: true, Sanitized: strings.ToLower(email)}
}

// ValidatePostalCode validates a postal code for the given country.
func ValidatePostalCode(code, country string) ValidationResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return ValidationResult{Valid: false, Message: "Postal code is required"}
	}

	re, known := postalCodeRegexes[strings.ToLower(strings.TrimSpace(country))]
	if !known {
		// No format on file for this country; accept anything non-empty.
		return ValidationResult{Valid: true, Sanitized: code}
	}

	normalized := strings.ToUpper(code)
	if !re.MatchString(normalized) {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("Postal code format is invalid for %s", country),
		}
	}
	return ValidationResult{Valid: true, Sanitized: normalized}
}

// ValidatePhoneNumber validates a phone number for the given country. Phone
// is an optional field: empty input is valid.
func ValidatePhoneNumber(phone, country string) ValidationResult {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ValidationResult{Valid: true}
	}

	stripped := phoneSeparators.Replace(phone)

	re, known := phoneRegexes[strings.ToLower(strings.TrimSpace(country))]
	if !known {
		re = genericPhoneRegex
	}

	if !re.MatchString(stripped) {
		return ValidationResult{Valid: false, Message: "Phone number format is invalid"}
	}
	return ValidationResult{Valid: true, Sanitized: stripped}
}

// ValidateBirthDate rejects future dates and implausible ages. The upper
// bound of 1000 years is deliberately permissive; it only guards against
// obvious data entry garbage.
func ValidateBirthDate(date string) BirthDateResult {
	date = strings.TrimSpace(date)
	if date == "" {
		return BirthDateResult{Valid: false, Message: "Birth date is required"}
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return BirthDateResult{Valid: false, Message: "Birth date must be formatted as YYYY-MM-DD"}
	}

	now := time.Now()
	if parsed.After(now) {
		return BirthDateResult{Valid: false, Message: "Birth date cannot be in the future"}
	}

	age := now.Year() - parsed.Year()
	if now.YearDay() < parsed.YearDay() {
		age--
	}

	if age < 0 {
		return BirthDateResult{Valid: false, Message: "Birth date cannot be in the future"}
	}
	if age > 1000 {
		return BirthDateResult{Valid: false, Message: "Birth date is not plausible"}
	}

	return BirthDateResult{Valid: true, Age: age}
}

// ValidateName validates a person name field and returns its trimmed form.
// fieldLabel names the field in messages ("First name", "Last name").
func ValidateName(name, fieldLabel string) ValidationResult {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("%s is required", fieldLabel)}
	}

	length := utf8.RuneCountInString(trimmed)
	if length < 2 {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("%s must be at least 2 characters", fieldLabel)}
	}
	if length > 50 {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("%s must be at most 50 characters", fieldLabel)}
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return ValidationResult{Valid: false, Message: fmt.Sprintf("%s contains invalid characters", fieldLabel)}
		}
	}

	lower := strings.ToLower(trimmed)
	if htmlTagRegex.MatchString(trimmed) ||
		strings.Contains(lower, "javascript:") ||
		eventHandlerRegex.MatchString(trimmed) {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("%s contains invalid content", fieldLabel)}
	}

	if !nameRegex.MatchString(trimmed) {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("%s may only contain letters, hyphens, apostrophes and periods", fieldLabel)}
	}

	return ValidationResult{Valid: true, Sanitized: trimmed}
}

// ValidateAddress checks the address block of an application. The postal code
// format check is delegated to ValidatePostalCode.
func ValidateAddress(data *ApplicationData) ValidationResult {
	var missing []string
	if data.AddressLine1 == "" {
		missing = append(missing, "address_line1")
	}
	if data.City == "" {
		missing = append(missing, "city")
	}
	if data.PostalCode == "" {
		missing = append(missing, "postal_code")
	}
	if data.Country == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("Address is incomplete: missing %s", strings.Join(missing, ", ")),
		}
	}

	if result := ValidatePostalCode(data.PostalCode, data.Country); !result.Valid {
		return result
	}

	return ValidationResult{Valid: true}
}
