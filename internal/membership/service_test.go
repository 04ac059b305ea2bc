package membership_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verenigingen/membership-api/internal/membership"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/testutil"
	"gorm.io/gorm"
)

func setupMembershipService(t *testing.T) (*membership.MembershipService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	return membership.NewMembershipService(db, membership.NewMembershipRepository()), db
}

func TestResolveAmount(t *testing.T) {
	mt := &model.MembershipType{DuesTemplateAmount: 100, MinimumAmount: 50}

	t.Run("Override wins", func(t *testing.T) {
		override := 60.0
		m := &model.Member{MembershipFeeOverride: &override}
		assert.Equal(t, 60.0, membership.ResolveAmount(m, mt))
	})

	t.Run("No override falls back to standard", func(t *testing.T) {
		assert.Equal(t, 100.0, membership.ResolveAmount(&model.Member{}, mt))
	})

	t.Run("Zero override is ignored", func(t *testing.T) {
		zero := 0.0
		m := &model.Member{MembershipFeeOverride: &zero}
		assert.Equal(t, 100.0, membership.ResolveAmount(m, mt))
	})
}

func TestCreateApprovalRecords_AllCarryTheSameAmount(t *testing.T) {
	service, db := setupMembershipService(t)

	override := 75.0
	m := &model.Member{
		FirstName:             "Jan",
		LastName:              "Jansen",
		FullName:              "Jan Jansen",
		Email:                 "jan@example.com",
		BirthDate:             "1990-06-15",
		Status:                model.MemberStatusPending,
		MembershipFeeOverride: &override,
	}
	require.NoError(t, db.Create(m).Error)

	mt := &model.MembershipType{Name: "Standard", Active: true, DuesTemplateAmount: 100}
	require.NoError(t, db.Create(mt).Error)

	amount, err := service.CreateApprovalRecords(context.Background(), nil, m, mt)
	require.NoError(t, err)
	assert.Equal(t, 75.0, amount)

	var ms model.Membership
	require.NoError(t, db.Where("member_id = ?", m.ID).First(&ms).Error)
	assert.Equal(t, 75.0, ms.Amount)
	assert.Equal(t, "Standard", ms.MembershipType)

	var invoice model.Invoice
	require.NoError(t, db.Where("member_id = ?", m.ID).First(&invoice).Error)
	assert.Equal(t, 75.0, invoice.Total)
	assert.Contains(t, invoice.Description, "Membership Application")

	var dues model.DuesSchedule
	require.NoError(t, db.Where("member_id = ?", m.ID).First(&dues).Error)
	assert.Equal(t, 75.0, dues.Rate)
}

func TestFindApplicationInvoice_MatchesByDescription(t *testing.T) {
	service, db := setupMembershipService(t)

	// Legacy rows carry no invoice type; the description match still finds
	// them.
	require.NoError(t, db.Create(&model.Invoice{
		MemberID:    42,
		InvoiceType: "Unknown",
		Description: "Membership Application - Standard",
		Total:       100,
	}).Error)

	invoice, err := service.FindApplicationInvoice(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, 100.0, invoice.Total)
}
