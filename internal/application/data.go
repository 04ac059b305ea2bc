package application

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verenigingen/membership-api/internal/volunteer"
)

// ApplicationData is the parsed application form payload. Field names match
// the public form's snake_case keys.
type ApplicationData struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	BirthDate  string `json:"birth_date"`
	Phone      string `json:"phone"`

	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`

	SelectedMembershipType string   `json:"selected_membership_type"`
	SelectedChapter        string   `json:"selected_chapter"`
	MembershipAmount       *float64 `json:"membership_amount"`
	UsesCustomAmount       bool     `json:"uses_custom_amount"`
	CustomAmountReason     string   `json:"custom_amount_reason"`

	InterestedInVolunteering bool                   `json:"interested_in_volunteering"`
	VolunteerSkills          []volunteer.SkillInput `json:"volunteer_skills"`
}

// requiredFields lists the form fields every submission must carry, in the
// order they are reported back when missing.
var requiredFields = []string{
	"first_name", "last_name", "email", "birth_date",
	"address_line1", "city", "postal_code", "country",
}

// MissingFields returns the names of required fields that are absent.
func (d *ApplicationData) MissingFields() []string {
	values := map[string]string{
		"first_name":    d.FirstName,
		"last_name":     d.LastName,
		"email":         d.Email,
		"birth_date":    d.BirthDate,
		"address_line1": d.AddressLine1,
		"city":          d.City,
		"postal_code":   d.PostalCode,
		"country":       d.Country,
	}

	var missing []string
	for _, field := range requiredFields {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// ParseApplicationData accepts either an already-decoded map or a JSON string
// and returns the typed payload. Nil input and malformed JSON are errors.
func ParseApplicationData(input any) (*ApplicationData, error) {
	switch v := input.(type) {
	case nil:
		return nil, errors.New("application data is required")
	case *ApplicationData:
		return v, nil
	case []byte:
		return unmarshalData(v)
	case string:
		return unmarshalData([]byte(v))
	case map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode application data: %w", err)
		}
		return unmarshalData(raw)
	default:
		return nil, fmt.Errorf("unsupported application data type %T", input)
	}
}

func unmarshalData(raw []byte) (*ApplicationData, error) {
	var data ApplicationData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("malformed application data: %w", err)
	}
	return &data, nil
}
