package volunteer

import (
	"strings"

	"github.com/verenigingen/membership-api/internal/model"
)

// SkillInput is one entry of the volunteer_skills payload submitted with an
// application.
type SkillInput struct {
	SkillName  string `json:"skill_name"`
	SkillLevel string `json:"skill_level"`
}

// proficiencyForLevel maps the submitted skill level string onto the fixed
// proficiency scale. Unknown levels default to intermediate.
func proficiencyForLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner":
		return model.ProficiencyBeginner
	case "basic":
		return model.ProficiencyBasic
	case "intermediate":
		return model.ProficiencyIntermediate
	case "advanced":
		return model.ProficiencyAdvanced
	case "expert":
		return model.ProficiencyExpert
	default:
		return model.ProficiencyIntermediate
	}
}

var skillCategoryKeywords = []struct {
	category string
	keywords []string
}{
	{model.SkillCategoryTechnical, []string{"it", "software", "programming", "website", "web", "computer", "technical", "developer", "database"}},
	{model.SkillCategoryEventPlanning, []string{"event", "organizing events", "venue", "catering", "festival"}},
	{model.SkillCategoryCommunication, []string{"communication", "writing", "social media", "marketing", "newsletter", "press", "translation"}},
	{model.SkillCategoryLeadership, []string{"leadership", "management", "coordination", "mentoring", "chair"}},
	{model.SkillCategoryFinancial, []string{"finance", "financial", "accounting", "bookkeeping", "budget", "treasurer"}},
	{model.SkillCategoryOrganizational, []string{"organization", "organizational", "planning", "administration", "admin", "logistics"}},
}

// categorizeSkill assigns a category by keyword matching on the skill name.
// Short keywords like "it" match whole words only, so "writing" does not land
// in Technical.
func categorizeSkill(skillName string) string {
	name := strings.ToLower(skillName)
	words := strings.Fields(name)

	for _, group := range skillCategoryKeywords {
		for _, keyword := range group.keywords {
			if len(keyword) <= 3 {
				for _, word := range words {
					if word == keyword {
						return group.category
					}
				}
				continue
			}
			if strings.Contains(name, keyword) {
				return group.category
			}
		}
	}
	return model.SkillCategoryOther
}
