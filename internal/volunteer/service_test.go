package volunteer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/testutil"
	"github.com/verenigingen/membership-api/internal/volunteer"
	"gorm.io/gorm"
)

func setupVolunteerService(t *testing.T) (*volunteer.VolunteerService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	return volunteer.NewVolunteerService(db), db
}

func interestedMember(t *testing.T, db *gorm.DB) *model.Member {
	t.Helper()

	m := &model.Member{
		FirstName:                "Jan",
		LastName:                 "Jansen",
		FullName:                 "Jan Jansen",
		Email:                    "jan@example.com",
		BirthDate:                "1990-06-15",
		Status:                   model.MemberStatusPending,
		InterestedInVolunteering: true,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestCreateFromMember_StatusIsAlwaysNew(t *testing.T) {
	service, db := setupVolunteerService(t)
	m := interestedMember(t, db)

	v, err := service.CreateFromMember(context.Background(), nil, m, nil)
	require.NoError(t, err)
	require.NotNil(t, v)

	// A fresh volunteer starts in "New" regardless of the member status.
	assert.Equal(t, model.VolunteerStatusNew, v.Status)
	assert.Equal(t, m.FullName, v.Name)
	assert.Equal(t, m.Email, v.Email)
}

func TestCreateFromMember_NotInterested(t *testing.T) {
	service, db := setupVolunteerService(t)
	m := interestedMember(t, db)
	m.InterestedInVolunteering = false
	require.NoError(t, db.Save(m).Error)

	v, err := service.CreateFromMember(context.Background(), nil, m, nil)

	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCreateFromMember_SkillCategories(t *testing.T) {
	service, db := setupVolunteerService(t)
	m := interestedMember(t, db)

	skills := []volunteer.SkillInput{
		{SkillName: "Website maintenance", SkillLevel: "advanced"},
		{SkillName: "Event organizing", SkillLevel: "intermediate"},
		{SkillName: "Bookkeeping", SkillLevel: "expert"},
		{SkillName: "Dog walking", SkillLevel: "beginner"},
		{SkillName: ""}, // skipped
	}

	v, err := service.CreateFromMember(context.Background(), nil, m, skills)
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Len(t, v.Skills, 4)

	byName := map[string]model.VolunteerSkill{}
	for _, s := range v.Skills {
		byName[s.SkillName] = s
	}

	assert.Equal(t, model.SkillCategoryTechnical, byName["Website maintenance"].Category)
	assert.Equal(t, model.SkillCategoryEventPlanning, byName["Event organizing"].Category)
	assert.Equal(t, model.SkillCategoryFinancial, byName["Bookkeeping"].Category)
	assert.Equal(t, model.SkillCategoryOther, byName["Dog walking"].Category)

	assert.Equal(t, model.ProficiencyAdvanced, byName["Website maintenance"].ProficiencyLevel)
	assert.Equal(t, model.ProficiencyExpert, byName["Bookkeeping"].ProficiencyLevel)
}

func TestCreateFromMember_UnknownLevelDefaultsToIntermediate(t *testing.T) {
	service, db := setupVolunteerService(t)
	m := interestedMember(t, db)

	v, err := service.CreateFromMember(context.Background(), nil, m, []volunteer.SkillInput{
		{SkillName: "Gardening", SkillLevel: "wizard"},
	})
	require.NoError(t, err)
	require.Len(t, v.Skills, 1)

	assert.Equal(t, model.ProficiencyIntermediate, v.Skills[0].ProficiencyLevel)
}

func TestFindByMemberID_PreloadsSkills(t *testing.T) {
	service, db := setupVolunteerService(t)
	m := interestedMember(t, db)

	_, err := service.CreateFromMember(context.Background(), nil, m, []volunteer.SkillInput{
		{SkillName: "Newsletter writing", SkillLevel: "basic"},
	})
	require.NoError(t, err)

	v, err := service.FindByMemberID(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, v.Skills, 1)
	assert.Equal(t, model.SkillCategoryCommunication, v.Skills[0].Category)
}
