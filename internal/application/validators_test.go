package application_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/verenigingen/membership-api/internal/application"
)

func TestValidateEmailFormat(t *testing.T) {
	testCases := []struct {
		name      string
		email     string
		valid     bool
		sanitized string
	}{
		{name: "Valid email", email: "jan@example.com", valid: true, sanitized: "jan@example.com"},
		{name: "Uppercase is lowercased", email: "Jan@Example.COM", valid: true, sanitized: "jan@example.com"},
		{name: "Surrounding whitespace trimmed", email: "  jan@example.com  ", valid: true, sanitized: "jan@example.com"},
		{name: "Empty", email: "", valid: false},
		{name: "Missing at sign", email: "jan.example.com", valid: false},
		{name: "Missing domain dot", email: "jan@example", valid: false},
		{name: "Contains space", email: "jan piet@example.com", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := application.ValidateEmailFormat(tc.email)

			assert.Equal(t, tc.valid, result.Valid)
			if tc.valid {
				assert.Equal(t, tc.sanitized, result.Sanitized)
			} else {
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestValidatePostalCode(t *testing.T) {
	testCases := []struct {
		name    string
		code    string
		country string
		valid   bool
	}{
		{name: "Dutch code with space", code: "1234 AB", country: "Netherlands", valid: true},
		{name: "Dutch code without space", code: "1234AB", country: "Netherlands", valid: true},
		{name: "Dutch lowercase letters normalized", code: "1234ab", country: "netherlands", valid: true},
		{name: "Dutch code starting with zero", code: "0123 AB", country: "Netherlands", valid: false},
		{name: "Dutch code missing letters", code: "1234", country: "Netherlands", valid: false},
		{name: "German five digits", code: "10115", country: "Germany", valid: true},
		{name: "German four digits", code: "1011", country: "Germany", valid: false},
		{name: "Belgian four digits", code: "3000", country: "Belgium", valid: true},
		{name: "French five digits", code: "75001", country: "France", valid: true},
		{name: "Unknown country accepts anything", code: "ABC 123", country: "Japan", valid: true},
		{name: "Empty code", code: "", country: "Netherlands", valid: false},
		{name: "Empty code unknown country", code: "", country: "Japan", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := application.ValidatePostalCode(tc.code, tc.country)
			assert.Equal(t, tc.valid, result.Valid, "postal code %q for %s", tc.code, tc.country)
		})
	}
}

func TestValidatePostalCode_SanitizesToUppercase(t *testing.T) {
	result := application.ValidatePostalCode("1234ab", "Netherlands")

	assert.True(t, result.Valid)
	assert.Equal(t, "1234AB", result.Sanitized)
}

func TestValidatePhoneNumber(t *testing.T) {
	testCases := []struct {
		name    string
		phone   string
		country string
		valid   bool
	}{
		{name: "Empty phone is optional", phone: "", country: "Netherlands", valid: true},
		{name: "Dutch mobile international", phone: "+31612345678", country: "Netherlands", valid: true},
		{name: "Dutch mobile national", phone: "0612345678", country: "Netherlands", valid: true},
		{name: "Dutch number with separators", phone: "06-12 34 56 78", country: "Netherlands", valid: true},
		{name: "Dutch number too short", phone: "061234567", country: "Netherlands", valid: false},
		{name: "Belgian number", phone: "+32470123456", country: "Belgium", valid: true},
		{name: "German number", phone: "+4915123456789", country: "Germany", valid: true},
		{name: "Unknown country generic format", phone: "+5511987654321", country: "Brazil", valid: true},
		{name: "Unknown country with letters", phone: "phone123", country: "Brazil", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := application.ValidatePhoneNumber(tc.phone, tc.country)
			assert.Equal(t, tc.valid, result.Valid, "phone %q for %s", tc.phone, tc.country)
		})
	}
}

func TestValidateBirthDate(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	testCases := []struct {
		name  string
		date  string
		valid bool
	}{
		{name: "Valid adult birth date", date: "1990-06-15", valid: true},
		{name: "Empty", date: "", valid: false},
		{name: "Wrong format", date: "15-06-1990", valid: false},
		{name: "Not a date", date: "not-a-date", valid: false},
		{name: "Future date", date: tomorrow, valid: false},
		{name: "Implausibly old", date: "0800-01-01", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := application.ValidateBirthDate(tc.date)
			assert.Equal(t, tc.valid, result.Valid)
		})
	}
}

func TestValidateBirthDate_ComputesAge(t *testing.T) {
	// January 1st has already passed in any current year, so the age is
	// exactly the year difference.
	result := application.ValidateBirthDate("1990-01-01")

	assert.True(t, result.Valid)
	assert.Equal(t, time.Now().Year()-1990, result.Age)
}

func TestValidateName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "Simple name", input: "Jan", valid: true},
		{name: "Name with diacritics", input: "José", valid: true},
		{name: "Hyphenated name", input: "Anne-Marie", valid: true},
		{name: "Name with apostrophe", input: "O'Brien", valid: true},
		{name: "Name with particle", input: "van der Berg", valid: true},
		{name: "Empty", input: "", valid: false},
		{name: "Single character", input: "J", valid: false},
		{name: "Too long", input: "AbcdefghijabcdefghijabcdefghijabcdefghijabcdefghijX", valid: false},
		{name: "Contains digits", input: "Jan2", valid: false},
		{name: "HTML tag", input: "<script>alert(1)</script>", valid: false},
		{name: "Javascript scheme", input: "javascript:alert", valid: false},
		{name: "Event handler", input: "x onload=alert", valid: false},
		{name: "Control character", input: "Jan\x00sen", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := application.ValidateName(tc.input, "First name")
			assert.Equal(t, tc.valid, result.Valid, "name %q", tc.input)
		})
	}
}

func TestValidateName_SanitizesWhitespace(t *testing.T) {
	result := application.ValidateName("  Jan  ", "First name")

	assert.True(t, result.Valid)
	assert.Equal(t, "Jan", result.Sanitized)
}

func TestValidateAddress(t *testing.T) {
	base := func() *application.ApplicationData {
		return &application.ApplicationData{
			AddressLine1: "Herengracht 1",
			City:         "Amsterdam",
			PostalCode:   "1234 AB",
			Country:      "Netherlands",
		}
	}

	t.Run("Complete address", func(t *testing.T) {
		result := application.ValidateAddress(base())
		assert.True(t, result.Valid)
	})

	t.Run("Missing fields are listed", func(t *testing.T) {
		data := base()
		data.City = ""
		data.PostalCode = ""

		result := application.ValidateAddress(data)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Message, "city")
		assert.Contains(t, result.Message, "postal_code")
	})

	t.Run("Invalid postal code fails the address", func(t *testing.T) {
		data := base()
		data.PostalCode = "99"

		result := application.ValidateAddress(data)
		assert.False(t, result.Valid)
	})
}

func TestGenerateApplicationID_Format(t *testing.T) {
	id := application.GenerateApplicationID()

	expectedPrefix := fmt.Sprintf("APP-%s-", time.Now().Format("20060102"))
	assert.Len(t, id, len("APP-20060102-0000"))
	assert.Equal(t, expectedPrefix, id[:len(expectedPrefix)])
}

func TestParseApplicationData(t *testing.T) {
	t.Run("Nil input is rejected", func(t *testing.T) {
		_, err := application.ParseApplicationData(nil)
		assert.Error(t, err)
	})

	t.Run("Malformed JSON is rejected", func(t *testing.T) {
		_, err := application.ParseApplicationData("{not json")
		assert.Error(t, err)
	})

	t.Run("Map input round-trips", func(t *testing.T) {
		data, err := application.ParseApplicationData(map[string]any{
			"first_name": "Jan",
			"email":      "jan@example.com",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Jan", data.FirstName)
		assert.Equal(t, "jan@example.com", data.Email)
	})
}

func TestMissingFields(t *testing.T) {
	data := &application.ApplicationData{
		FirstName: "Jan",
		Email:     "jan@example.com",
	}

	missing := data.MissingFields()

	assert.Contains(t, missing, "last_name")
	assert.Contains(t, missing, "birth_date")
	assert.Contains(t, missing, "address_line1")
	assert.NotContains(t, missing, "first_name")
	assert.NotContains(t, missing, "email")
}
