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

type MatchRequestHandler struct {
	uc   usecase.MatchRequestUsecase
	list usecase.MatchRequestListUsecase
}

type sendMatchRequestRequest struct {
	ReceiverID      uuid.UUID   `json:"receiver_id"`
	SkillsOffered   []uuid.UUID `json:"skills_offered"`
	SkillsRequested []uuid.UUID `json:"skills_requested"`
}

type respondMatchRequestRequest struct {
	Status string `json:"status"`
}

func NewMatchRequestHandler(uc usecase.MatchRequestUsecase, list usecase.MatchRequestListUsecase) *MatchRequestHandler {
	return &MatchRequestHandler{uc: uc, list: list}
}

func (h *MatchRequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Send)
	r.Get("/incoming", h.ListIncoming)
	r.Get("/sent", h.ListSent)
	r.Put("/:id", h.Respond)
}

func (h *MatchRequestHandler) Send(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req sendMatchRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	result, err := h.uc.SendOrUpdate(c.Context(), userID, usecase.SendRequestInput{
		ReceiverID:            req.ReceiverID,
		OfferedUserSkillIDs:   req.SkillsOffered,
		RequestedUserSkillIDs: req.SkillsRequested,
	})
	if err != nil {
		return mapMatchRequestUsecaseError(err)
	}

	status := fiber.StatusOK
	message := "Match request updated successfully"
	if result.Created {
		status = fiber.StatusCreated
		message = "Match request sent successfully"
	}
	return response.Success(c, status, message, toMatchRequestResponse(result))
}

func (h *MatchRequestHandler) Respond(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request id", nil, err)
	}

	var req respondMatchRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.Respond(c.Context(), requestID, userID, req.Status)
	if err != nil {
		return mapMatchRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Match request "+updated.Status, fiber.Map{
		"id":     updated.ID,
		"status": updated.Status,
	})
}

func (h *MatchRequestHandler) ListIncoming(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.list.ListIncoming(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := make([]dto.IncomingRequestResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.IncomingRequestResponse{
			ID:           item.ID,
			Sender:       toCounterpartResponse(item.Counterpart),
			SkillOffered: toOfferedTermResponses(item.SkillsOffered),
			SkillWanted:  toWantedTermResponses(item.SkillsWanted),
			SentAt:       item.SentAt,
			Status:       item.Status,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchRequestHandler) ListSent(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.list.ListSent(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := make([]dto.SentRequestResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.SentRequestResponse{
			ID:           item.ID,
			Recipient:    toCounterpartResponse(item.Counterpart),
			SkillOffered: toOfferedTermResponses(item.SkillsOffered),
			SkillWanted:  toWantedTermResponses(item.SkillsWanted),
			SentAt:       item.SentAt,
			Status:       item.Status,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapMatchRequestUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrMissingFields),
		errors.Is(err, usecase.ErrSelfRequest),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrAlreadyResponded):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrSkillRefNotFound),
		errors.Is(err, usecase.ErrSkillNotOwned):
		return middleware.NewAppError(fiber.StatusBadRequest, "One or more referenced skills are invalid", nil, err)
	case errors.Is(err, usecase.ErrNotReceiver):
		return middleware.NewAppError(fiber.StatusForbidden, "Not authorized to respond to this request", nil, err)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match request not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func toMatchRequestResponse(result usecase.MatchRequestResult) dto.MatchRequestResponse {
	return dto.MatchRequestResponse{
		ID:              result.Request.ID,
		Sender:          toUserSummaryResponse(result.Sender),
		Receiver:        toUserSummaryResponse(result.Receiver),
		SkillsOffered:   toRequestSkillResponses(result.Request.SkillsOffered),
		SkillsRequested: toRequestSkillResponses(result.Request.SkillsRequested),
		Status:          result.Request.Status,
		CreatedAt:       result.Request.CreatedAt,
	}
}

func toRequestSkillResponses(terms []repository.RequestSkill) []dto.RequestSkillResponse {
	out := make([]dto.RequestSkillResponse, 0, len(terms))
	for _, t := range terms {
		out = append(out, dto.RequestSkillResponse{
			UserSkillID: t.UserSkillID,
			SkillID:     t.SkillID,
			SkillName:   t.SkillName,
		})
	}
	return out
}

func toCounterpartResponse(v usecase.CounterpartView) dto.RequestCounterpartResponse {
	return dto.RequestCounterpartResponse{
		ID:                v.ID,
		Name:              v.Name,
		ProfilePictureURL: v.ProfilePictureURL,
		KarmaPoints:       v.KarmaPoints,
	}
}

func toOfferedTermResponses(terms []usecase.OfferedTermView) []dto.OfferedTermResponse {
	out := make([]dto.OfferedTermResponse, 0, len(terms))
	for _, t := range terms {
		out = append(out, dto.OfferedTermResponse{
			Name:             t.Name,
			ProficiencyLevel: t.ProficiencyLevel,
			Availability:     t.Availability,
		})
	}
	return out
}

func toWantedTermResponses(terms []usecase.WantedTermView) []dto.WantedTermResponse {
	out := make([]dto.WantedTermResponse, 0, len(terms))
	for _, t := range terms {
		out = append(out, dto.WantedTermResponse{
			Name:               t.Name,
			DesiredProficiency: t.DesiredProficiency,
			Urgency:            t.Urgency,
		})
	}
	return out
}
