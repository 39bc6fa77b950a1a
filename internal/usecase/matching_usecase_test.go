package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type mockMatchingSkillRepo struct {
	wants  []repository.UserSkill
	offers []repository.UserSkill

	offersForSkills   []repository.MatchRow
	requestsForSkills []repository.MatchRow

	offersQuery   []uuid.UUID
	requestsQuery []uuid.UUID

	err error
}

func (m *mockMatchingSkillRepo) FindByUserID(_ context.Context, _ uuid.UUID, kind string) ([]repository.UserSkill, error) {
	if m.err != nil {
		return nil, m.err
	}
	if kind == repository.KindRequest {
		return m.wants, nil
	}
	return m.offers, nil
}
func (m *mockMatchingSkillRepo) FindByID(context.Context, uuid.UUID) (repository.UserSkill, error) {
	return repository.UserSkill{}, repository.ErrUserSkillNotFound
}
func (m *mockMatchingSkillRepo) FindByIDs(context.Context, []uuid.UUID) (map[uuid.UUID]repository.UserSkill, error) {
	return nil, nil
}
func (m *mockMatchingSkillRepo) Create(context.Context, repository.UserSkill) (repository.UserSkill, error) {
	return repository.UserSkill{}, nil
}
func (m *mockMatchingSkillRepo) Update(context.Context, repository.UserSkill) (repository.UserSkill, error) {
	return repository.UserSkill{}, nil
}
func (m *mockMatchingSkillRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (m *mockMatchingSkillRepo) FindOffersForSkills(_ context.Context, skillIDs []uuid.UUID, _ uuid.UUID) ([]repository.MatchRow, error) {
	m.offersQuery = skillIDs
	return m.offersForSkills, nil
}
func (m *mockMatchingSkillRepo) FindRequestsForSkills(_ context.Context, skillIDs []uuid.UUID, _ uuid.UUID) ([]repository.MatchRow, error) {
	m.requestsQuery = skillIDs
	return m.requestsForSkills, nil
}

func matchRow(owner repository.CandidateProfile, skillName string) repository.MatchRow {
	return repository.MatchRow{
		Owner: owner,
		Skill: repository.UserSkill{
			ID:        uuid.New(),
			UserID:    owner.ID,
			SkillID:   uuid.New(),
			SkillName: skillName,
			Status:    repository.UserSkillStatusActive,
		},
	}
}

func TestMatchingComputeMatches_BidirectionalCandidate(t *testing.T) {
	alice := uuid.New()
	bob := repository.CandidateProfile{ID: uuid.New(), Name: "Bob"}

	designID := uuid.New()
	pythonID := uuid.New()

	repo := &mockMatchingSkillRepo{
		wants: []repository.UserSkill{{
			ID: uuid.New(), UserID: alice, SkillID: designID, SkillName: "Design",
			Kind: repository.KindRequest, Status: repository.UserSkillStatusActive,
		}},
		offers: []repository.UserSkill{{
			ID: uuid.New(), UserID: alice, SkillID: pythonID, SkillName: "Python",
			Kind: repository.KindOffer, Status: repository.UserSkillStatusActive,
		}},
		offersForSkills:   []repository.MatchRow{matchRow(bob, "Design")},
		requestsForSkills: []repository.MatchRow{matchRow(bob, "Python")},
	}

	uc := NewMatchingUsecase(repo, nil, nil)

	results, err := uc.ComputeMatches(context.Background(), alice)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Candidate.UserID != bob.ID {
		t.Fatalf("expected Bob, got %s", results[0].Candidate.Name)
	}
	if results[0].CompatibilityScore != 2 {
		t.Fatalf("expected score 2, got %d", results[0].CompatibilityScore)
	}

	if len(repo.offersQuery) != 1 || repo.offersQuery[0] != designID {
		t.Fatalf("expected offers probed with wanted skill ids, got %v", repo.offersQuery)
	}
	if len(repo.requestsQuery) != 1 || repo.requestsQuery[0] != pythonID {
		t.Fatalf("expected requests probed with offered skill ids, got %v", repo.requestsQuery)
	}
}

func TestMatchingComputeMatches_SkipsArchivedSkills(t *testing.T) {
	alice := uuid.New()
	archivedID := uuid.New()

	repo := &mockMatchingSkillRepo{
		wants: []repository.UserSkill{{
			ID: uuid.New(), UserID: alice, SkillID: archivedID, SkillName: "Design",
			Kind: repository.KindRequest, Status: repository.UserSkillStatusArchived,
		}},
	}

	uc := NewMatchingUsecase(repo, nil, nil)

	results, err := uc.ComputeMatches(context.Background(), alice)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if len(repo.offersQuery) != 0 {
		t.Fatalf("expected archived skills excluded from the probe, got %v", repo.offersQuery)
	}
}

func TestMatchingComputeMatches_RepositoryError(t *testing.T) {
	repo := &mockMatchingSkillRepo{err: errors.New("boom")}
	uc := NewMatchingUsecase(repo, nil, nil)

	_, err := uc.ComputeMatches(context.Background(), uuid.New())
	if !errors.Is(err, ErrMatchingFailed) {
		t.Fatalf("expected ErrMatchingFailed, got %v", err)
	}
}

func TestMatchingComputeMatches_NilUser(t *testing.T) {
	uc := NewMatchingUsecase(&mockMatchingSkillRepo{}, nil, nil)

	_, err := uc.ComputeMatches(context.Background(), uuid.Nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
