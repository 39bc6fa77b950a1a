package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

const placeholderNA = "N/A"

type CounterpartView struct {
	ID                uuid.UUID
	Name              string
	ProfilePictureURL string
	KarmaPoints       int
}

type OfferedTermView struct {
	Name             string
	ProficiencyLevel string
	Availability     []string
}

type WantedTermView struct {
	Name               string
	DesiredProficiency string
	Urgency            string
}

// RequestListItem is a flattened request view: the counterpart plus the
// display attributes of every term. Terms whose user-skill row has been
// deleted keep their name snapshot and degrade attributes to placeholders
// instead of failing the listing.
type RequestListItem struct {
	ID            uuid.UUID
	Counterpart   CounterpartView
	SkillsOffered []OfferedTermView
	SkillsWanted  []WantedTermView
	SentAt        time.Time
	Status        string
}

type MatchRequestListUsecase interface {
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]RequestListItem, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]RequestListItem, error)
}

type MatchRequestList struct {
	requests repository.MatchRequestRepository
	logger   *log.Logger
}

func NewMatchRequestListUsecase(requests repository.MatchRequestRepository, logger *log.Logger) *MatchRequestList {
	if logger == nil {
		logger = log.Default()
	}
	return &MatchRequestList{requests: requests, logger: logger}
}

func (u *MatchRequestList) ListIncoming(ctx context.Context, userID uuid.UUID) ([]RequestListItem, error) {
	details, err := u.requests.ListIncoming(ctx, userID)
	if err != nil {
		u.logger.Printf("incoming requests list error | user_id=%s err=%v", userID, err)
		return nil, ErrInternal
	}
	return formatRequestList(details), nil
}

func (u *MatchRequestList) ListSent(ctx context.Context, userID uuid.UUID) ([]RequestListItem, error) {
	details, err := u.requests.ListSent(ctx, userID)
	if err != nil {
		u.logger.Printf("sent requests list error | user_id=%s err=%v", userID, err)
		return nil, ErrInternal
	}
	return formatRequestList(details), nil
}

func formatRequestList(details []repository.RequestDetail) []RequestListItem {
	out := make([]RequestListItem, 0, len(details))
	for _, d := range details {
		item := RequestListItem{
			ID: d.ID,
			Counterpart: CounterpartView{
				ID:                d.Counterpart.ID,
				Name:              d.Counterpart.Name,
				ProfilePictureURL: d.Counterpart.ProfilePictureURL,
				KarmaPoints:       d.Counterpart.KarmaPoints,
			},
			SkillsOffered: make([]OfferedTermView, 0, len(d.SkillsOffered)),
			SkillsWanted:  make([]WantedTermView, 0, len(d.SkillsRequested)),
			SentAt:        d.CreatedAt,
			Status:        strings.ToLower(d.Status),
		}

		for _, t := range d.SkillsOffered {
			item.SkillsOffered = append(item.SkillsOffered, OfferedTermView{
				Name:             t.SkillName,
				ProficiencyLevel: orPlaceholder(t, t.ProficiencyLevel),
				Availability:     availabilityOf(t),
			})
		}
		for _, t := range d.SkillsRequested {
			item.SkillsWanted = append(item.SkillsWanted, WantedTermView{
				Name:               t.SkillName,
				DesiredProficiency: orPlaceholder(t, t.DesiredProficiency),
				Urgency:            urgencyOf(t),
			})
		}
		out = append(out, item)
	}
	return out
}

func orPlaceholder(t repository.RequestTermDetail, v string) string {
	if !t.Resolved || v == "" {
		return placeholderNA
	}
	return v
}

func availabilityOf(t repository.RequestTermDetail) []string {
	if !t.Resolved || t.Availability == nil {
		return []string{}
	}
	return t.Availability
}

func urgencyOf(t repository.RequestTermDetail) string {
	if !t.Resolved {
		return placeholderNA
	}
	if t.Urgency == "" {
		return "Medium"
	}
	return t.Urgency
}
