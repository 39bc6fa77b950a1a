package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"
	ucuser "skill-swap/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	Name              *string `json:"name"`
	Bio               *string `json:"bio"`
	Region            *string `json:"region"`
	Timezone          *string `json:"timezone"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	usr, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toUserResponse(usr))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, err := h.uc.UpdateProfile(c.Context(), userID, ucuser.UpdateProfileInput{
		Name:              req.Name,
		Bio:               req.Bio,
		Region:            req.Region,
		Timezone:          req.Timezone,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated successfully", toUserResponse(usr))
}

func mapUserUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucuser.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, ucuser.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func toUserResponse(u user.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Bio:               u.Bio,
		Region:            u.Region,
		Timezone:          u.Timezone,
		ProfilePictureURL: u.ProfilePictureURL,
		KarmaPoints:       u.KarmaPoints,
		Rating:            u.Rating,
		CreatedAt:         u.CreatedAt,
	}
}

func toUserSummaryResponse(s user.Summary) dto.UserSummaryResponse {
	return dto.UserSummaryResponse{
		ID:                s.ID,
		Name:              s.Name,
		Bio:               s.Bio,
		Region:            s.Region,
		Timezone:          s.Timezone,
		ProfilePictureURL: s.ProfilePictureURL,
		KarmaPoints:       s.KarmaPoints,
		Rating:            s.Rating,
	}
}
