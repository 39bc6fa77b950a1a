package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID
	Name              string
	Email             string
	PasswordHash      string
	Bio               string
	Region            string
	Timezone          string
	ProfilePictureURL string
	KarmaPoints       int
	Rating            float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Summary is the public slice of a user attached to matches and requests.
type Summary struct {
	ID                uuid.UUID
	Name              string
	Bio               string
	Region            string
	Timezone          string
	ProfilePictureURL string
	KarmaPoints       int
	Rating            float64
}

func (u User) Summary() Summary {
	return Summary{
		ID:                u.ID,
		Name:              u.Name,
		Bio:               u.Bio,
		Region:            u.Region,
		Timezone:          u.Timezone,
		ProfilePictureURL: u.ProfilePictureURL,
		KarmaPoints:       u.KarmaPoints,
		Rating:            u.Rating,
	}
}
