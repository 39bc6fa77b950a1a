package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrSelfRequest      = errors.New("cannot send request to yourself")
	ErrSkillRefNotFound = errors.New("referenced skill not found")
	ErrSkillNotOwned    = errors.New("referenced skill not owned by expected user")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrRequestNotFound  = errors.New("request not found")
	ErrNotReceiver      = errors.New("not authorized")
	ErrAlreadyResponded = errors.New("request already responded to")
)

type SendRequestInput struct {
	ReceiverID            uuid.UUID
	OfferedUserSkillIDs   []uuid.UUID
	RequestedUserSkillIDs []uuid.UUID
}

type MatchRequestResult struct {
	Request  repository.MatchRequest
	Sender   user.Summary
	Receiver user.Summary
	Created  bool
}

// MatchRequestNotifier pushes request events to connected clients. A nil
// notifier disables delivery.
type MatchRequestNotifier interface {
	MatchRequestReceived(receiverID, requestID uuid.UUID, created bool)
	MatchRequestResponded(senderID, requestID uuid.UUID, status string)
}

type MatchRequestUsecase interface {
	SendOrUpdate(ctx context.Context, senderID uuid.UUID, in SendRequestInput) (MatchRequestResult, error)
	Respond(ctx context.Context, requestID, responderID uuid.UUID, status string) (repository.MatchRequest, error)
}

type MatchRequestService struct {
	requests   repository.MatchRequestRepository
	userSkills repository.UserSkillRepository
	users      user.Repository
	notifier   MatchRequestNotifier
	logger     *log.Logger
}

func NewMatchRequestUsecase(
	requests repository.MatchRequestRepository,
	userSkills repository.UserSkillRepository,
	users user.Repository,
	notifier MatchRequestNotifier,
	logger *log.Logger,
) *MatchRequestService {
	if logger == nil {
		logger = log.Default()
	}
	return &MatchRequestService{
		requests:   requests,
		userSkills: userSkills,
		users:      users,
		notifier:   notifier,
		logger:     logger,
	}
}

// SendOrUpdate creates a Pending request or merges new terms into the
// pair's existing Pending/Accepted one. Offered terms must be sender-owned
// user skills, requested terms receiver-owned.
func (s *MatchRequestService) SendOrUpdate(ctx context.Context, senderID uuid.UUID, in SendRequestInput) (MatchRequestResult, error) {
	if in.ReceiverID == uuid.Nil || len(in.OfferedUserSkillIDs) == 0 || len(in.RequestedUserSkillIDs) == 0 {
		return MatchRequestResult{}, ErrMissingFields
	}
	if in.ReceiverID == senderID {
		return MatchRequestResult{}, ErrSelfRequest
	}

	offered, err := s.resolveTerms(ctx, in.OfferedUserSkillIDs, senderID)
	if err != nil {
		return MatchRequestResult{}, err
	}
	requested, err := s.resolveTerms(ctx, in.RequestedUserSkillIDs, in.ReceiverID)
	if err != nil {
		return MatchRequestResult{}, err
	}

	var result repository.MatchRequest
	created := false

	existing, err := s.requests.FindActiveByPair(ctx, senderID, in.ReceiverID)
	switch {
	case err == nil:
		result, err = s.requests.MergeTerms(ctx, existing.ID, offered, requested)
		if err != nil {
			s.logger.Printf("match request merge error | request_id=%s err=%v", existing.ID, err)
			return MatchRequestResult{}, ErrInternal
		}
	case errors.Is(err, repository.ErrMatchRequestNotFound):
		result, err = s.requests.CreateWithTerms(ctx, repository.MatchRequest{
			ID:              uuid.New(),
			SenderID:        senderID,
			ReceiverID:      in.ReceiverID,
			SkillsOffered:   offered,
			SkillsRequested: requested,
		})
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, repository.ErrActivePairExists) {
			s.logger.Printf("match request create error | sender_id=%s receiver_id=%s err=%v", senderID, in.ReceiverID, err)
			return MatchRequestResult{}, ErrInternal
		}
		// Lost a concurrent create for the same pair; fold into the winner.
		winner, ferr := s.requests.FindActiveByPair(ctx, senderID, in.ReceiverID)
		if ferr != nil {
			return MatchRequestResult{}, ErrInternal
		}
		result, err = s.requests.MergeTerms(ctx, winner.ID, offered, requested)
		if err != nil {
			return MatchRequestResult{}, ErrInternal
		}
	default:
		s.logger.Printf("match request lookup error | sender_id=%s receiver_id=%s err=%v", senderID, in.ReceiverID, err)
		return MatchRequestResult{}, ErrInternal
	}

	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		return MatchRequestResult{}, ErrInternal
	}
	receiver, err := s.users.GetUserByID(ctx, in.ReceiverID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return MatchRequestResult{}, ErrMissingFields
		}
		return MatchRequestResult{}, ErrInternal
	}

	if s.notifier != nil {
		s.notifier.MatchRequestReceived(in.ReceiverID, result.ID, created)
	}

	return MatchRequestResult{
		Request:  result,
		Sender:   sender.Summary(),
		Receiver: receiver.Summary(),
		Created:  created,
	}, nil
}

// Respond lets the receiver move a Pending request to Accepted or
// Rejected. Both outcomes are terminal for this operation.
func (s *MatchRequestService) Respond(ctx context.Context, requestID, responderID uuid.UUID, status string) (repository.MatchRequest, error) {
	if status != repository.StatusAccepted && status != repository.StatusRejected {
		return repository.MatchRequest{}, ErrInvalidStatus
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchRequestNotFound) {
			return repository.MatchRequest{}, ErrRequestNotFound
		}
		s.logger.Printf("match request fetch error | request_id=%s err=%v", requestID, err)
		return repository.MatchRequest{}, ErrInternal
	}

	if !isReceiver(req, responderID) {
		return repository.MatchRequest{}, ErrNotReceiver
	}
	if req.Status != repository.StatusPending {
		return repository.MatchRequest{}, ErrAlreadyResponded
	}

	updated, err := s.requests.UpdateStatus(ctx, requestID, status)
	if err != nil {
		s.logger.Printf("match request status update error | request_id=%s err=%v", requestID, err)
		return repository.MatchRequest{}, ErrInternal
	}

	if s.notifier != nil {
		s.notifier.MatchRequestResponded(req.SenderID, requestID, status)
	}
	return updated, nil
}

func (s *MatchRequestService) resolveTerms(ctx context.Context, ids []uuid.UUID, expectedOwner uuid.UUID) ([]repository.RequestSkill, error) {
	found, err := s.userSkills.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Printf("user skill resolve error | err=%v", err)
		return nil, ErrInternal
	}

	out := make([]repository.RequestSkill, 0, len(ids))
	for _, id := range ids {
		us, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSkillRefNotFound, id)
		}
		if us.UserID != expectedOwner {
			return nil, fmt.Errorf("%w: %s", ErrSkillNotOwned, id)
		}
		out = append(out, repository.RequestSkill{
			UserSkillID: us.ID,
			SkillID:     us.SkillID,
			SkillName:   us.SkillName,
		})
	}
	return out, nil
}

func isReceiver(req repository.MatchRequest, actorID uuid.UUID) bool {
	return req.ReceiverID == actorID
}
