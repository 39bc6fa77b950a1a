package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Bio               string    `json:"bio"`
	Region            string    `json:"region"`
	Timezone          string    `json:"timezone"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	KarmaPoints       int       `json:"karma_points"`
	Rating            float64   `json:"rating"`
	CreatedAt         time.Time `json:"created_at"`
}

type UserSummaryResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Bio               string    `json:"bio"`
	Region            string    `json:"region"`
	Timezone          string    `json:"timezone"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	KarmaPoints       int       `json:"karma_points"`
	Rating            float64   `json:"rating"`
}
