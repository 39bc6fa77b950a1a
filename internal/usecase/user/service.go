package user

import (
	"context"
	"errors"
	"strings"

	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

type UpdateProfileInput struct {
	Name              *string
	Bio               *string
	Region            *string
	Timezone          *string
	ProfilePictureURL *string
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	fields := user.UpdateProfileFields{
		Name:              usr.Name,
		Bio:               usr.Bio,
		Region:            usr.Region,
		Timezone:          usr.Timezone,
		ProfilePictureURL: usr.ProfilePictureURL,
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return user.User{}, ErrInvalidInput
		}
		fields.Name = name
	}
	if in.Bio != nil {
		fields.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Region != nil {
		fields.Region = strings.TrimSpace(*in.Region)
	}
	if in.Timezone != nil {
		fields.Timezone = strings.TrimSpace(*in.Timezone)
	}
	if in.ProfilePictureURL != nil {
		fields.ProfilePictureURL = strings.TrimSpace(*in.ProfilePictureURL)
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	updated, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(updated), nil
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
