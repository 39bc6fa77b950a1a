package handler

import (
	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/matching"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
}

func (h *MatchHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	results, err := h.uc.ComputeMatches(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to compute matches", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toCompatibilityResponses(results))
}

func toCompatibilityResponses(results []matching.Result) []dto.CompatibilityResultResponse {
	out := make([]dto.CompatibilityResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.CompatibilityResultResponse{
			ID: r.Candidate.UserID,
			User: dto.UserSummaryResponse{
				ID:                r.Candidate.UserID,
				Name:              r.Candidate.Name,
				Bio:               r.Candidate.Bio,
				Region:            r.Candidate.Region,
				Timezone:          r.Candidate.Timezone,
				ProfilePictureURL: r.Candidate.ProfilePictureURL,
				KarmaPoints:       r.Candidate.KarmaPoints,
				Rating:            r.Candidate.Rating,
			},
			SkillsOffered:      toMatchedSkillResponses(r.SkillsOffered),
			SkillsRequested:    toMatchedSkillResponses(r.SkillsRequested),
			CompatibilityScore: r.CompatibilityScore,
			MutualInterests:    r.MutualInterests,
		})
	}
	return out
}

func toMatchedSkillResponses(entries []matching.SkillEntry) []dto.MatchedSkillResponse {
	out := make([]dto.MatchedSkillResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.MatchedSkillResponse{
			UserSkillID:        e.UserSkillID,
			SkillID:            e.SkillID,
			Name:               e.SkillName,
			Description:        e.Description,
			ProficiencyLevel:   e.ProficiencyLevel,
			Availability:       e.Availability,
			DesiredProficiency: e.DesiredProficiency,
			Urgency:            e.Urgency,
		})
	}
	return out
}
