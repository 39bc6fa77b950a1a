package dto

import (
	"time"

	"github.com/google/uuid"
)

type RequestSkillResponse struct {
	UserSkillID uuid.UUID `json:"user_skill_id"`
	SkillID     uuid.UUID `json:"skill_id"`
	SkillName   string    `json:"skill_name"`
}

type MatchRequestResponse struct {
	ID              uuid.UUID              `json:"id"`
	Sender          UserSummaryResponse    `json:"sender"`
	Receiver        UserSummaryResponse    `json:"receiver"`
	SkillsOffered   []RequestSkillResponse `json:"skills_offered"`
	SkillsRequested []RequestSkillResponse `json:"skills_requested"`
	Status          string                 `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
}

type RequestCounterpartResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	KarmaPoints       int       `json:"karma_points"`
}

type OfferedTermResponse struct {
	Name             string   `json:"name"`
	ProficiencyLevel string   `json:"proficiency_level"`
	Availability     []string `json:"availability"`
}

type WantedTermResponse struct {
	Name               string `json:"name"`
	DesiredProficiency string `json:"desired_proficiency"`
	Urgency            string `json:"urgency"`
}

type IncomingRequestResponse struct {
	ID           uuid.UUID                  `json:"id"`
	Sender       RequestCounterpartResponse `json:"sender"`
	SkillOffered []OfferedTermResponse      `json:"skill_offered"`
	SkillWanted  []WantedTermResponse       `json:"skill_wanted"`
	SentAt       time.Time                  `json:"sent_at"`
	Status       string                     `json:"status"`
}

type SentRequestResponse struct {
	ID           uuid.UUID                  `json:"id"`
	Recipient    RequestCounterpartResponse `json:"recipient"`
	SkillOffered []OfferedTermResponse      `json:"skill_offered"`
	SkillWanted  []WantedTermResponse       `json:"skill_wanted"`
	SentAt       time.Time                  `json:"sent_at"`
	Status       string                     `json:"status"`
}
