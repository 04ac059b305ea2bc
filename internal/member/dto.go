package member

type MemberDetailResponse struct {
	ID                    uint32   `json:"id"`
	FullName              string   `json:"fullName"`
	Email                 string   `json:"email"`
	Status                string   `json:"status"`
	ApplicationID         string   `json:"applicationId,omitempty"`
	ApplicationStatus     string   `json:"applicationStatus,omitempty"`
	SelectedChapter       string   `json:"selectedChapter,omitempty"`
	SelectedType          string   `json:"selectedMembershipType,omitempty"`
	MembershipFeeOverride *float64 `json:"membershipFeeOverride,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
}
