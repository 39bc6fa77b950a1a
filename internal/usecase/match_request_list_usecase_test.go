package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type mockRequestListRepo struct {
	incoming []repository.RequestDetail
	sent     []repository.RequestDetail
	err      error
}

func (m mockRequestListRepo) FindActiveByPair(context.Context, uuid.UUID, uuid.UUID) (repository.MatchRequest, error) {
	return repository.MatchRequest{}, repository.ErrMatchRequestNotFound
}
func (m mockRequestListRepo) GetByID(context.Context, uuid.UUID) (repository.MatchRequest, error) {
	return repository.MatchRequest{}, repository.ErrMatchRequestNotFound
}
func (m mockRequestListRepo) CreateWithTerms(context.Context, repository.MatchRequest) (repository.MatchRequest, error) {
	return repository.MatchRequest{}, nil
}
func (m mockRequestListRepo) MergeTerms(context.Context, uuid.UUID, []repository.RequestSkill, []repository.RequestSkill) (repository.MatchRequest, error) {
	return repository.MatchRequest{}, nil
}
func (m mockRequestListRepo) UpdateStatus(context.Context, uuid.UUID, string) (repository.MatchRequest, error) {
	return repository.MatchRequest{}, nil
}
func (m mockRequestListRepo) ListIncoming(context.Context, uuid.UUID) ([]repository.RequestDetail, error) {
	return m.incoming, m.err
}
func (m mockRequestListRepo) ListSent(context.Context, uuid.UUID) ([]repository.RequestDetail, error) {
	return m.sent, m.err
}

func TestMatchRequestList_Incoming(t *testing.T) {
	sentAt := time.Now().UTC()
	detail := repository.RequestDetail{
		ID: uuid.New(),
		Counterpart: repository.CandidateProfile{
			ID:          uuid.New(),
			Name:        "Alice",
			KarmaPoints: 7,
		},
		SkillsOffered: []repository.RequestTermDetail{{
			SkillName:        "Python",
			Resolved:         true,
			ProficiencyLevel: "Advanced",
			Availability:     []string{"Weekends"},
		}},
		SkillsRequested: []repository.RequestTermDetail{{
			SkillName:          "Design",
			Resolved:           true,
			DesiredProficiency: "Intermediate",
			Urgency:            "High",
		}},
		Status:    repository.StatusPending,
		CreatedAt: sentAt,
	}

	uc := NewMatchRequestListUsecase(mockRequestListRepo{incoming: []repository.RequestDetail{detail}}, nil)

	items, err := uc.ListIncoming(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Counterpart.Name != "Alice" || item.Counterpart.KarmaPoints != 7 {
		t.Fatalf("unexpected counterpart: %+v", item.Counterpart)
	}
	if item.Status != "pending" {
		t.Fatalf("expected lowercase status, got %q", item.Status)
	}
	if item.SkillsOffered[0].ProficiencyLevel != "Advanced" {
		t.Fatalf("unexpected proficiency: %q", item.SkillsOffered[0].ProficiencyLevel)
	}
	if item.SkillsWanted[0].Urgency != "High" {
		t.Fatalf("unexpected urgency: %q", item.SkillsWanted[0].Urgency)
	}
	if !item.SentAt.Equal(sentAt) {
		t.Fatalf("unexpected sent at: %v", item.SentAt)
	}
}

func TestMatchRequestList_DanglingTermsDegradeToPlaceholders(t *testing.T) {
	detail := repository.RequestDetail{
		ID:          uuid.New(),
		Counterpart: repository.CandidateProfile{ID: uuid.New(), Name: "Bob"},
		SkillsOffered: []repository.RequestTermDetail{{
			SkillName: "Guitar",
			Resolved:  false,
		}},
		SkillsRequested: []repository.RequestTermDetail{{
			SkillName: "Photography",
			Resolved:  false,
		}},
		Status: repository.StatusPending,
	}

	uc := NewMatchRequestListUsecase(mockRequestListRepo{sent: []repository.RequestDetail{detail}}, nil)

	items, err := uc.ListSent(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the row to survive the dangling reference, got %d items", len(items))
	}

	offered := items[0].SkillsOffered[0]
	if offered.Name != "Guitar" {
		t.Fatalf("expected name snapshot to survive, got %q", offered.Name)
	}
	if offered.ProficiencyLevel != "N/A" {
		t.Fatalf("expected N/A proficiency, got %q", offered.ProficiencyLevel)
	}
	if len(offered.Availability) != 0 {
		t.Fatalf("expected empty availability, got %v", offered.Availability)
	}

	wanted := items[0].SkillsWanted[0]
	if wanted.DesiredProficiency != "N/A" || wanted.Urgency != "N/A" {
		t.Fatalf("expected N/A attributes, got %+v", wanted)
	}
}

func TestMatchRequestList_UrgencyDefaultsWhenResolvedButEmpty(t *testing.T) {
	detail := repository.RequestDetail{
		ID:          uuid.New(),
		Counterpart: repository.CandidateProfile{ID: uuid.New(), Name: "Bob"},
		SkillsRequested: []repository.RequestTermDetail{{
			SkillName: "Spanish",
			Resolved:  true,
		}},
		Status: repository.StatusAccepted,
	}

	uc := NewMatchRequestListUsecase(mockRequestListRepo{incoming: []repository.RequestDetail{detail}}, nil)

	items, err := uc.ListIncoming(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if items[0].SkillsWanted[0].Urgency != "Medium" {
		t.Fatalf("expected Medium default, got %q", items[0].SkillsWanted[0].Urgency)
	}
	if items[0].SkillsWanted[0].DesiredProficiency != "N/A" {
		t.Fatalf("expected N/A for empty desired proficiency, got %q", items[0].SkillsWanted[0].DesiredProficiency)
	}
}

func TestMatchRequestList_RepositoryError(t *testing.T) {
	uc := NewMatchRequestListUsecase(mockRequestListRepo{err: errors.New("boom")}, nil)

	if _, err := uc.ListIncoming(context.Background(), uuid.New()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if _, err := uc.ListSent(context.Background(), uuid.New()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
