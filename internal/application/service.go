package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verenigingen/membership-api/internal/chapter"
	"github.com/verenigingen/membership-api/internal/config"
	"github.com/verenigingen/membership-api/internal/enrollment"
	"github.com/verenigingen/membership-api/internal/member"
	"github.com/verenigingen/membership-api/internal/membership"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/notification"
	"github.com/verenigingen/membership-api/internal/shared/database"
	"github.com/verenigingen/membership-api/internal/shared/logger"
	"github.com/verenigingen/membership-api/internal/volunteer"
	"gorm.io/gorm"
)

// fallbackCountries is returned by FormData when no address rows exist yet to
// derive a country list from.
var fallbackCountries = []string{
	"Netherlands", "Belgium", "Germany", "France", "Luxembourg",
	"United Kingdom", "Spain", "Italy", "Austria", "Switzerland",
}

type ApplicationService struct {
	db  *gorm.DB
	cfg *config.Config

	memberRepository     *member.MemberRepository
	membershipRepository *membership.MembershipRepository
	membershipService    *membership.MembershipService
	chapterService       *chapter.ChapterService
	volunteerService     *volunteer.VolunteerService
	outbox               *enrollment.OutboxService
	notifier             notification.Notifier
}

func NewApplicationService(
	db *gorm.DB,
	cfg *config.Config,
	memberRepository *member.MemberRepository,
	membershipRepository *membership.MembershipRepository,
	membershipService *membership.MembershipService,
	chapterService *chapter.ChapterService,
	volunteerService *volunteer.VolunteerService,
	outbox *enrollment.OutboxService,
	notifier notification.Notifier,
) *ApplicationService {
	return &ApplicationService{
		db:                   db,
		cfg:                  cfg,
		memberRepository:     memberRepository,
		membershipRepository: membershipRepository,
		membershipService:    membershipService,
		chapterService:       chapterService,
		volunteerService:     volunteerService,
		outbox:               outbox,
		notifier:             notifier,
	}
}

// Submit processes one membership application end to end. Failures are
// returned as a structured result, not an error: the caller always answers
// the form with a body the frontend can render.
func (s *ApplicationService) Submit(ctx context.Context, input any) *SubmitResult {
	log := logger.FromContext(ctx)

	data, err := ParseApplicationData(input)
	if err != nil {
		return validationFailure("Invalid application data", err.Error())
	}

	if missing := data.MissingFields(); len(missing) > 0 {
		result := validationFailure(
			"Application is incomplete",
			fmt.Sprintf("Required fields are missing: %v", missing),
		)
		result.MissingFields = missing
		return result
	}

	eligibility, err := s.CheckEligibility(ctx, data)
	if err != nil {
		log.Error("eligibility check failed", "error", err)
		return serverFailure("Could not process the application")
	}
	if !eligibility.Eligible {
		log.Info("application rejected by eligibility checks",
			"email", logger.MaskEmail(data.Email),
			"issues", eligibility.Issues,
		)
		result := validationFailure("Application does not meet the requirements", eligibility.Issues[0])
		result.Issues = eligibility.Issues
		result.Warnings = eligibility.Warnings
		return result
	}

	membershipType, result := s.resolveMembershipType(ctx, data)
	if result != nil {
		return result
	}

	var amountWarning string
	if data.UsesCustomAmount {
		check := ValidateCustomAmount(membershipType, data.MembershipAmount, s.cfg.Application.MaxFeeMultiplier)
		if !check.Valid {
			return validationFailure("Invalid membership amount", check.Message)
		}
		amountWarning = check.Warning
	}

	var (
		created *model.Member
		intent  *model.EnrollmentIntent
	)

	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		m, in, txErr := s.createApplicationRecords(ctx, tx, data, membershipType)
		if txErr != nil {
			return txErr
		}
		created = m
		intent = in
		return nil
	})
	if err != nil {
		if errors.Is(err, errDuplicateEmail) {
			return validationFailure(
				"A member with this email address already exists",
				"An application or membership for this email address is already on file",
			)
		}
		log.Error("application submission failed", "error", err, "email", logger.MaskEmail(data.Email))
		return serverFailure("Could not process the application")
	}

	// The chapter enrollment intent is committed alongside the member. A
	// first delivery attempt happens inline; on failure the background
	// worker retries it.
	if intent != nil {
		if dispatchErr := s.outbox.Dispatch(ctx, intent); dispatchErr != nil {
			log.Warn("inline chapter enrollment failed, left to retry worker",
				"member_id", created.ID,
				"chapter", intent.ChapterName,
				"error", dispatchErr,
			)
		}
	}

	s.sendSubmissionEmails(ctx, created)

	log.Info("application submitted",
		"application_id", created.ApplicationID,
		"member_id", created.ID,
		"email", logger.MaskEmail(created.Email),
	)

	result = &SubmitResult{
		Success:          true,
		ApplicationID:    created.ApplicationID,
		MemberRecord:     created.ID,
		Status:           "pending_review",
		SuggestedChapter: created.SelectedChapter,
	}
	if amountWarning != "" {
		result.Warnings = []string{amountWarning}
	}
	return result
}

var errDuplicateEmail = errors.New("duplicate email")

// createApplicationRecords builds the member and its companion rows inside
// the submission transaction.
func (s *ApplicationService) createApplicationRecords(
	ctx context.Context,
	tx *gorm.DB,
	data *ApplicationData,
	membershipType *model.MembershipType,
) (*model.Member, *model.EnrollmentIntent, error) {
	log := logger.FromContext(ctx)

	// Re-checked inside the transaction; the unique index on email is the
	// final backstop under concurrent submissions.
	exists, err := s.memberRepository.IsExist(ctx, tx, normalizeEmail(data.Email))
	if err != nil {
		return nil, nil, fmt.Errorf("check duplicate email: %w", err)
	}
	if exists {
		return nil, nil, errDuplicateEmail
	}

	now := time.Now()
	m := &model.Member{
		FirstName:  strings.TrimSpace(data.FirstName),
		MiddleName: strings.TrimSpace(data.MiddleName),
		LastName:   strings.TrimSpace(data.LastName),
		Email:      normalizeEmail(data.Email),
		BirthDate:  strings.TrimSpace(data.BirthDate),
		Phone:      strings.TrimSpace(data.Phone),

		Status:                 model.MemberStatusPending,
		ApplicationID:          GenerateApplicationID(),
		ApplicationStatus:      model.ApplicationStatusPending,
		ApplicationDate:        &now,
		SelectedMembershipType: membershipType.Name,

		InterestedInVolunteering: data.InterestedInVolunteering,
	}
	m.FullName = buildFullName(m.FirstName, m.MiddleName, m.LastName)

	if data.UsesCustomAmount && data.MembershipAmount != nil {
		m.MembershipFeeOverride = data.MembershipAmount
		m.FeeOverrideReason = data.CustomAmountReason
		if m.FeeOverrideReason == "" {
			m.FeeOverrideReason = "Custom amount selected during application"
		}
		m.FeeOverrideDate = &now
		m.FeeOverrideBy = m.Email

		raw, marshalErr := json.Marshal(map[string]any{
			"membership_amount":  *data.MembershipAmount,
			"uses_custom_amount": true,
			"reason":             m.FeeOverrideReason,
		})
		if marshalErr != nil {
			return nil, nil, fmt.Errorf("encode custom amount data: %w", marshalErr)
		}
		m.CustomAmountData = string(raw)
	}

	// Address creation is best effort. A member without an address row is
	// still a valid application.
	address := &model.Address{
		Title:        m.FullName,
		AddressLine1: data.AddressLine1,
		AddressLine2: data.AddressLine2,
		City:         data.City,
		PostalCode:   data.PostalCode,
		Country:      data.Country,
	}
	if addrErr := tx.WithContext(ctx).Create(address).Error; addrErr != nil {
		log.Warn("address creation failed, continuing without address",
			"email", logger.MaskEmail(m.Email), "error", addrErr)
	} else {
		m.PrimaryAddressID = &address.ID
	}

	chapterName, chapterErr := s.chapterService.SuggestChapter(ctx, data.SelectedChapter, data.PostalCode)
	if chapterErr != nil {
		log.Warn("chapter suggestion failed", "error", chapterErr)
		chapterName = ""
	}
	m.SelectedChapter = chapterName
	if chapterName != "" {
		m.AppendNote("Selected Chapter: " + chapterName)
	}

	if createErr := s.memberRepository.Create(ctx, tx, m); createErr != nil {
		return nil, nil, fmt.Errorf("create member: %w", createErr)
	}

	var intent *model.EnrollmentIntent
	if chapterName != "" {
		var enqueueErr error
		intent, enqueueErr = s.outbox.Enqueue(ctx, tx, m.ID, chapterName)
		if enqueueErr != nil {
			return nil, nil, fmt.Errorf("enqueue chapter enrollment: %w", enqueueErr)
		}
	}

	if _, volErr := s.volunteerService.CreateFromMember(ctx, tx, m, data.VolunteerSkills); volErr != nil {
		return nil, nil, fmt.Errorf("create volunteer record: %w", volErr)
	}

	return m, intent, nil
}

// resolveMembershipType loads the selected membership type and translates
// lookup failures into submission results.
func (s *ApplicationService) resolveMembershipType(ctx context.Context, data *ApplicationData) (*model.MembershipType, *SubmitResult) {
	if data.SelectedMembershipType == "" {
		return nil, validationFailure("Membership type is required", "Select a membership type before submitting")
	}

	mt, err := s.membershipRepository.FindTypeByName(ctx, s.db, data.SelectedMembershipType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationFailure(
				"Unknown membership type",
				fmt.Sprintf("Membership type %q does not exist", data.SelectedMembershipType),
			)
		}
		logger.FromContext(ctx).Error("membership type lookup failed", "error", err)
		return nil, serverFailure("Could not process the application")
	}
	if !mt.Active {
		return nil, validationFailure(
			"Membership type unavailable",
			fmt.Sprintf("Membership type %q is not open for applications", mt.Name),
		)
	}
	return mt, nil
}

// CheckEligibility runs all submission-time checks and aggregates their
// outcomes. It never short-circuits: the applicant sees every issue at once.
func (s *ApplicationService) CheckEligibility(ctx context.Context, data *ApplicationData) (*EligibilityResult, error) {
	result := &EligibilityResult{Issues: []string{}, Warnings: []string{}}

	if birth := ValidateBirthDate(data.BirthDate); !birth.Valid {
		result.Issues = append(result.Issues, birth.Message)
	} else if birth.Age < 16 {
		result.Warnings = append(result.Warnings, "Applicant is under 16; parental consent may be required")
	}

	email := ValidateEmailFormat(data.Email)
	if !email.Valid {
		result.Issues = append(result.Issues, email.Message)
	} else {
		exists, err := s.memberRepository.IsExist(ctx, s.db, email.Sanitized)
		if err != nil {
			return nil, fmt.Errorf("check duplicate email: %w", err)
		}
		if exists {
			result.Issues = append(result.Issues, "A member with this email address already exists")
		}
	}

	if first := ValidateName(data.FirstName, "First name"); !first.Valid {
		result.Issues = append(result.Issues, first.Message)
	}
	if last := ValidateName(data.LastName, "Last name"); !last.Valid {
		result.Issues = append(result.Issues, last.Message)
	}

	if addr := ValidateAddress(data); !addr.Valid {
		result.Issues = append(result.Issues, addr.Message)
	}

	if phone := ValidatePhoneNumber(data.Phone, data.Country); !phone.Valid {
		result.Issues = append(result.Issues, phone.Message)
	}

	count, err := s.membershipRepository.CountActiveTypes(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("count membership types: %w", err)
	}
	if count == 0 {
		result.Issues = append(result.Issues, "No membership types are currently available")
	}

	result.Eligible = len(result.Issues) == 0
	return result, nil
}

// ValidateEmail checks format and whether a member already uses the address.
func (s *ApplicationService) ValidateEmail(ctx context.Context, email string) (*EmailValidationResult, error) {
	format := ValidateEmailFormat(email)
	if !format.Valid {
		return &EmailValidationResult{Valid: false, Message: format.Message}, nil
	}

	existing, err := s.memberRepository.FindByEmail(ctx, s.db, format.Sanitized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &EmailValidationResult{Valid: true}, nil
		}
		return nil, err
	}

	return &EmailValidationResult{
		Valid:    true,
		Exists:   true,
		Message:  "A member with this email address already exists",
		MemberID: existing.ID,
	}, nil
}

// Approve moves a reviewed application to Active and creates its billing
// records. The reviewer's email is recorded on the member.
func (s *ApplicationService) Approve(ctx context.Context, memberID uint32, notes, reviewerEmail string) *ActionResult {
	log := logger.FromContext(ctx)

	m, err := s.memberRepository.FindByID(ctx, s.db, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ActionResult{Error: "Member not found"}
		}
		log.Error("member lookup failed", "member_id", memberID, "error", err)
		return &ActionResult{Error: "Could not load the member"}
	}

	if !reviewable(m) {
		return &ActionResult{
			Error: fmt.Sprintf("Application cannot be approved from status %q", m.ApplicationStatus),
		}
	}

	membershipType, err := s.membershipRepository.FindTypeByName(ctx, s.db, m.SelectedMembershipType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ActionResult{
				Error: fmt.Sprintf("Membership type %q no longer exists", m.SelectedMembershipType),
			}
		}
		log.Error("membership type lookup failed", "error", err)
		return &ActionResult{Error: "Could not load the membership type"}
	}

	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		amount, txErr := s.membershipService.CreateApprovalRecords(ctx, tx, m, membershipType)
		if txErr != nil {
			return txErr
		}

		now := time.Now()
		m.Status = model.MemberStatusActive
		m.ApplicationStatus = model.ApplicationStatusApproved
		m.ReviewedAt = &now
		m.ReviewedBy = reviewerEmail
		m.AppendNote(fmt.Sprintf("Application approved by %s (amount %.2f)", reviewerEmail, amount))
		if notes != "" {
			m.AppendNote("Approval notes: " + notes)
		}

		return s.memberRepository.Save(ctx, tx, m)
	})
	if err != nil {
		log.Error("approval failed", "member_id", memberID, "error", err)
		return &ActionResult{Error: "Could not approve the application"}
	}

	// Chapter activation and notification are post-commit conveniences; the
	// approval itself already stands.
	if _, chErr := s.chapterService.ActivatePendingMembership(ctx, m.ID, m.SelectedChapter); chErr != nil {
		log.Warn("chapter activation failed", "member_id", m.ID, "chapter", m.SelectedChapter, "error", chErr)
	}

	invoice, invErr := s.membershipService.FindApplicationInvoice(ctx, m.ID)
	if invErr != nil {
		log.Warn("application invoice lookup failed", "member_id", m.ID, "error", invErr)
	}
	if mailErr := s.notifier.SendApprovalEmail(ctx, m, invoice); mailErr != nil {
		log.Warn("approval email failed", "member_id", m.ID, "error", mailErr)
	}

	log.Info("application approved",
		"member_id", m.ID,
		"application_id", m.ApplicationID,
		"reviewed_by", logger.MaskEmail(reviewerEmail),
	)
	return &ActionResult{Success: true}
}

// Reject closes a reviewed application with a reason and removes its pending
// chapter membership.
func (s *ApplicationService) Reject(ctx context.Context, memberID uint32, reason, reviewerEmail string) *ActionResult {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(reason) == "" {
		return &ActionResult{Error: "A rejection reason is required"}
	}

	m, err := s.memberRepository.FindByID(ctx, s.db, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ActionResult{Error: "Member not found"}
		}
		log.Error("member lookup failed", "member_id", memberID, "error", err)
		return &ActionResult{Error: "Could not load the member"}
	}

	if !reviewable(m) {
		return &ActionResult{
			Error: fmt.Sprintf("Application cannot be rejected from status %q", m.ApplicationStatus),
		}
	}

	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		now := time.Now()
		m.Status = model.MemberStatusRejected
		m.ApplicationStatus = model.ApplicationStatusRejected
		m.ReviewedAt = &now
		m.ReviewedBy = reviewerEmail
		m.RejectionReason = reason
		m.AppendNote(fmt.Sprintf("Application rejected by %s: %s", reviewerEmail, reason))
		return s.memberRepository.Save(ctx, tx, m)
	})
	if err != nil {
		log.Error("rejection failed", "member_id", memberID, "error", err)
		return &ActionResult{Error: "Could not reject the application"}
	}

	if chErr := s.chapterService.RemovePendingMembership(ctx, m.ID, m.SelectedChapter); chErr != nil {
		log.Warn("pending chapter membership removal failed", "member_id", m.ID, "error", chErr)
	}

	if mailErr := s.notifier.SendRejectionEmail(ctx, m, reason); mailErr != nil {
		log.Warn("rejection email failed", "member_id", m.ID, "error", mailErr)
	}

	log.Info("application rejected",
		"member_id", m.ID,
		"application_id", m.ApplicationID,
		"reviewed_by", logger.MaskEmail(reviewerEmail),
	)
	return &ActionResult{Success: true}
}

// Status looks an application up by its public identifier.
func (s *ApplicationService) Status(ctx context.Context, applicationID string) (*StatusResult, error) {
	m, err := s.memberRepository.FindByApplicationID(ctx, s.db, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StatusResult{Success: false, Error: "Application not found"}, nil
		}
		return nil, err
	}

	result := &StatusResult{
		Success:           true,
		ApplicationID:     m.ApplicationID,
		ApplicationStatus: m.ApplicationStatus,
		MemberStatus:      m.Status,
	}
	if m.ApplicationDate != nil {
		result.ApplicationDate = m.ApplicationDate.Format("2006-01-02")
	}
	return result, nil
}

// FormData assembles the option lists the public form renders.
func (s *ApplicationService) FormData(ctx context.Context) (*FormData, error) {
	types, err := s.membershipRepository.FindActiveTypes(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("load membership types: %w", err)
	}

	chapters, err := s.chapterService.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}

	form := &FormData{
		MembershipTypes: make([]MembershipTypeOption, 0, len(types)),
		Chapters:        make([]ChapterOption, 0, len(chapters)),
		VolunteerAreas: []string{
			model.SkillCategoryTechnical,
			model.SkillCategoryEventPlanning,
			model.SkillCategoryCommunication,
			model.SkillCategoryLeadership,
			model.SkillCategoryFinancial,
			model.SkillCategoryOrganizational,
			model.SkillCategoryOther,
		},
		Countries: s.countryOptions(ctx),
	}

	for _, t := range types {
		form.MembershipTypes = append(form.MembershipTypes, MembershipTypeOption{
			Name:           t.Name,
			Description:    t.Description,
			StandardAmount: t.StandardAmount(),
		})
	}
	for _, c := range chapters {
		form.Chapters = append(form.Chapters, ChapterOption{Name: c.Name, Region: c.Region})
	}
	return form, nil
}

// countryOptions derives the country list from existing addresses and falls
// back to a fixed list when none exist or the query fails.
func (s *ApplicationService) countryOptions(ctx context.Context) []string {
	var countries []string
	err := s.db.WithContext(ctx).
		Model(&model.Address{}).
		Distinct("country").
		Order("country").
		Pluck("country", &countries).Error
	if err != nil || len(countries) == 0 {
		if err != nil {
			logger.FromContext(ctx).Warn("country lookup failed, using fallback list", "error", err)
		}
		return fallbackCountries
	}
	return countries
}

func (s *ApplicationService) sendSubmissionEmails(ctx context.Context, m *model.Member) {
	log := logger.FromContext(ctx)
	if err := s.notifier.SendApplicationConfirmation(ctx, m); err != nil {
		log.Warn("confirmation email failed", "member_id", m.ID, "error", err)
	}
	if err := s.notifier.SendReviewerNotification(ctx, m); err != nil {
		log.Warn("reviewer notification failed", "member_id", m.ID, "error", err)
	}
}

func reviewable(m *model.Member) bool {
	return m.ApplicationStatus == model.ApplicationStatusPending ||
		m.ApplicationStatus == model.ApplicationStatusUnderReview
}

func validationFailure(errText, message string) *SubmitResult {
	return &SubmitResult{
		Success:   false,
		Error:     errText,
		Message:   message,
		Type:      failureTypeValidation,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func serverFailure(message string) *SubmitResult {
	return &SubmitResult{
		Success:   false,
		Error:     "Application processing failed",
		Message:   message,
		Type:      failureTypeServer,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func buildFullName(first, middle, last string) string {
	if middle == "" {
		return first + " " + last
	}
	return first + " " + middle + " " + last
}
