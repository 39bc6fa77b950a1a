package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/repository"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserSkillHandler struct {
	uc usecase.UserSkillUsecase
}

type addUserSkillRequest struct {
	SkillName          string   `json:"skill_name"`
	Description        string   `json:"description"`
	Kind               string   `json:"kind"`
	ProficiencyLevel   string   `json:"proficiency_level"`
	Availability       []string `json:"availability"`
	DesiredProficiency string   `json:"desired_proficiency"`
	Urgency            string   `json:"urgency"`
}

type updateUserSkillRequest struct {
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	ProficiencyLevel   string   `json:"proficiency_level"`
	Availability       []string `json:"availability"`
	DesiredProficiency string   `json:"desired_proficiency"`
	Urgency            string   `json:"urgency"`
}

func NewUserSkillHandler(uc usecase.UserSkillUsecase) *UserSkillHandler {
	return &UserSkillHandler{uc: uc}
}

func (h *UserSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func (h *UserSkillHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListUserSkills(c.Context(), userID, c.Query("kind"))
	if err != nil {
		return mapUserSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toUserSkillResponses(items))
}

func (h *UserSkillHandler) Add(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req addUserSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.AddUserSkill(c.Context(), userID, usecase.AddUserSkillInput{
		SkillName:          req.SkillName,
		Description:        req.Description,
		Kind:               req.Kind,
		ProficiencyLevel:   req.ProficiencyLevel,
		Availability:       req.Availability,
		DesiredProficiency: req.DesiredProficiency,
		Urgency:            req.Urgency,
	})
	if err != nil {
		return mapUserSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Skill added successfully", toUserSkillResponse(created))
}

func (h *UserSkillHandler) Update(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	userSkillID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill id", nil, err)
	}

	var req updateUserSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateUserSkill(c.Context(), userID, userSkillID, usecase.UpdateUserSkillInput{
		Description:        req.Description,
		Status:             req.Status,
		ProficiencyLevel:   req.ProficiencyLevel,
		Availability:       req.Availability,
		DesiredProficiency: req.DesiredProficiency,
		Urgency:            req.Urgency,
	})
	if err != nil {
		return mapUserSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skill updated successfully", toUserSkillResponse(updated))
}

func (h *UserSkillHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	userSkillID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill id", nil, err)
	}

	if err := h.uc.DeleteUserSkill(c.Context(), userID, userSkillID); err != nil {
		return mapUserSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skill removed successfully", nil)
}

func mapUserSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidKind),
		errors.Is(err, usecase.ErrInvalidProficiency),
		errors.Is(err, usecase.ErrInvalidUrgency),
		errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func toUserSkillResponse(us repository.UserSkill) dto.UserSkillResponse {
	return dto.UserSkillResponse{
		ID:                 us.ID,
		SkillID:            us.SkillID,
		SkillName:          us.SkillName,
		Kind:               us.Kind,
		Description:        us.Description,
		Status:             us.Status,
		ProficiencyLevel:   us.ProficiencyLevel,
		Availability:       us.Availability,
		DesiredProficiency: us.DesiredProficiency,
		Urgency:            us.Urgency,
		CreatedAt:          us.CreatedAt,
	}
}

func toUserSkillResponses(items []repository.UserSkill) []dto.UserSkillResponse {
	out := make([]dto.UserSkillResponse, 0, len(items))
	for _, us := range items {
		out = append(out, toUserSkillResponse(us))
	}
	return out
}
