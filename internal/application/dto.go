package application

// Result types for the public application endpoints. Business and validation
// failures are carried in the body with success=false; HTTP status stays 200
// so the form frontend only ever branches on the success flag.

const (
	failureTypeValidation = "validation_error"
	failureTypeServer     = "server_error"
)

// SubmitResult is the response of a submission attempt.
type SubmitResult struct {
	Success          bool     `json:"success"`
	ApplicationID    string   `json:"application_id,omitempty"`
	MemberRecord     uint32   `json:"member_record,omitempty"`
	Status           string   `json:"status,omitempty"`
	SuggestedChapter string   `json:"suggested_chapter,omitempty"`
	Error            string   `json:"error,omitempty"`
	Message          string   `json:"message,omitempty"`
	Type             string   `json:"type,omitempty"`
	MissingFields    []string `json:"missing_fields,omitempty"`
	Issues           []string `json:"issues,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
	Timestamp        string   `json:"timestamp,omitempty"`
}

// EligibilityResult aggregates all submission-time checks.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// ActionResult is the response of approve/reject.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ReviewRequest carries the optional notes (approve) or required reason
// (reject) of a review action.
type ReviewRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// StatusResult is the response of an application status lookup.
type StatusResult struct {
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
	ApplicationID     string `json:"application_id,omitempty"`
	ApplicationStatus string `json:"application_status,omitempty"`
	MemberStatus      string `json:"member_status,omitempty"`
	ApplicationDate   string `json:"application_date,omitempty"`
}

// FormData is everything the public application form needs to render.
type FormData struct {
	MembershipTypes []MembershipTypeOption `json:"membership_types"`
	Chapters        []ChapterOption        `json:"chapters"`
	VolunteerAreas  []string               `json:"volunteer_areas"`
	Countries       []string               `json:"countries"`
}

type MembershipTypeOption struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	StandardAmount float64 `json:"standard_amount"`
}

// ChapterOption deliberately exposes name and region only.
type ChapterOption struct {
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

// Draft endpoints

type SaveDraftRequest struct {
	DraftID string         `json:"draft_id" binding:"omitempty,uuid4"`
	Data    map[string]any `json:"data" binding:"required"`
}

type SaveDraftResponse struct {
	Success bool   `json:"success"`
	DraftID string `json:"draft_id"`
}

type LoadDraftResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Validation endpoints

type ValidateEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type ValidatePostalCodeRequest struct {
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
}

type ValidatePhoneRequest struct {
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

type ValidateBirthDateRequest struct {
	BirthDate string `json:"birth_date" binding:"required"`
}

type ValidateNameRequest struct {
	Name  string `json:"name" binding:"required"`
	Label string `json:"label"`
}
