package dto

import "github.com/google/uuid"

type MatchedSkillResponse struct {
	UserSkillID        uuid.UUID `json:"user_skill_id"`
	SkillID            uuid.UUID `json:"skill_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	ProficiencyLevel   string    `json:"proficiency_level,omitempty"`
	Availability       []string  `json:"availability,omitempty"`
	DesiredProficiency string    `json:"desired_proficiency,omitempty"`
	Urgency            string    `json:"urgency,omitempty"`
}

type CompatibilityResultResponse struct {
	ID                 uuid.UUID              `json:"id"`
	User               UserSummaryResponse    `json:"user"`
	SkillsOffered      []MatchedSkillResponse `json:"skills_offered"`
	SkillsRequested    []MatchedSkillResponse `json:"skills_requested"`
	CompatibilityScore int                    `json:"compatibility_score"`
	MutualInterests    []string               `json:"mutual_interests"`
}
