package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserSkillResponse struct {
	ID                 uuid.UUID `json:"id"`
	SkillID            uuid.UUID `json:"skill_id"`
	SkillName          string    `json:"skill_name"`
	Kind               string    `json:"kind"`
	Description        string    `json:"description,omitempty"`
	Status             string    `json:"status"`
	ProficiencyLevel   string    `json:"proficiency_level,omitempty"`
	Availability       []string  `json:"availability,omitempty"`
	DesiredProficiency string    `json:"desired_proficiency,omitempty"`
	Urgency            string    `json:"urgency,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}
