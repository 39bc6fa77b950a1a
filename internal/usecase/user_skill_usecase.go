package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidKind        = errors.New("invalid skill kind")
	ErrInvalidProficiency = errors.New("invalid proficiency level")
	ErrInvalidUrgency     = errors.New("invalid urgency")
	ErrInvalidInput       = errors.New("invalid input")
)

type AddUserSkillInput struct {
	SkillName          string
	Description        string
	Kind               string
	ProficiencyLevel   string
	Availability       []string
	DesiredProficiency string
	Urgency            string
}

type UpdateUserSkillInput struct {
	Description        string
	Status             string
	ProficiencyLevel   string
	Availability       []string
	DesiredProficiency string
	Urgency            string
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID, kind string) ([]repository.UserSkill, error)
	AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (repository.UserSkill, error)
	UpdateUserSkill(ctx context.Context, userID uuid.UUID, userSkillID uuid.UUID, in UpdateUserSkillInput) (repository.UserSkill, error)
	DeleteUserSkill(ctx context.Context, userID uuid.UUID, userSkillID uuid.UUID) error
}

type UserSkill struct {
	repo   repository.UserSkillRepository
	skills repository.SkillRepository
	cache  *cache.Redis
	logger *log.Logger
}

func NewUserSkillUsecase(repo repository.UserSkillRepository, skills repository.SkillRepository, c *cache.Redis, logger *log.Logger) *UserSkill {
	if logger == nil {
		logger = log.Default()
	}
	return &UserSkill{repo: repo, skills: skills, cache: c, logger: logger}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID, kind string) ([]repository.UserSkill, error) {
	if kind != "" && kind != repository.KindOffer && kind != repository.KindRequest {
		return nil, ErrInvalidKind
	}
	items, err := u.repo.FindByUserID(ctx, userID, kind)
	if err != nil {
		u.logger.Printf("user skill list error | user_id=%s err=%v", userID, err)
		return nil, ErrInternal
	}
	return items, nil
}

func (u *UserSkill) AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (repository.UserSkill, error) {
	if strings.TrimSpace(in.SkillName) == "" {
		return repository.UserSkill{}, ErrInvalidInput
	}

	us := repository.UserSkill{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        in.Kind,
		Description: strings.TrimSpace(in.Description),
		Status:      repository.UserSkillStatusActive,
	}

	switch in.Kind {
	case repository.KindOffer:
		if !isValidProficiency(in.ProficiencyLevel) {
			return repository.UserSkill{}, ErrInvalidProficiency
		}
		us.ProficiencyLevel = in.ProficiencyLevel
		us.Availability = in.Availability
		if us.Availability == nil {
			us.Availability = []string{}
		}
	case repository.KindRequest:
		if !isValidProficiency(in.DesiredProficiency) {
			return repository.UserSkill{}, ErrInvalidProficiency
		}
		urgency := in.Urgency
		if urgency == "" {
			urgency = "Medium"
		}
		if !isValidUrgency(urgency) {
			return repository.UserSkill{}, ErrInvalidUrgency
		}
		us.DesiredProficiency = in.DesiredProficiency
		us.Urgency = urgency
		us.Availability = []string{}
	default:
		return repository.UserSkill{}, ErrInvalidKind
	}

	skill, err := u.skills.EnsureByName(ctx, in.SkillName, in.Description)
	if err != nil {
		u.logger.Printf("skill upsert error | name=%q err=%v", in.SkillName, err)
		return repository.UserSkill{}, ErrInternal
	}
	us.SkillID = skill.ID

	created, err := u.repo.Create(ctx, us)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.UserSkill{}, ErrSkillNotFound
		}
		u.logger.Printf("user skill create error | user_id=%s err=%v", userID, err)
		return repository.UserSkill{}, ErrInternal
	}

	u.invalidateMatches(ctx, userID)
	return created, nil
}

func (u *UserSkill) UpdateUserSkill(ctx context.Context, userID uuid.UUID, userSkillID uuid.UUID, in UpdateUserSkillInput) (repository.UserSkill, error) {
	if userSkillID == uuid.Nil {
		return repository.UserSkill{}, ErrInvalidInput
	}

	existing, err := u.repo.FindByID(ctx, userSkillID)
	if err != nil {
		if errors.Is(err, repository.ErrUserSkillNotFound) {
			return repository.UserSkill{}, ErrSkillNotFound
		}
		return repository.UserSkill{}, ErrInternal
	}
	if !isOwner(existing, userID) {
		return repository.UserSkill{}, ErrForbidden
	}

	next := existing
	if in.Description != "" {
		next.Description = strings.TrimSpace(in.Description)
	}
	if in.Status != "" {
		if in.Status != repository.UserSkillStatusActive && in.Status != repository.UserSkillStatusArchived {
			return repository.UserSkill{}, ErrInvalidInput
		}
		next.Status = in.Status
	}

	switch existing.Kind {
	case repository.KindOffer:
		if in.ProficiencyLevel != "" {
			if !isValidProficiency(in.ProficiencyLevel) {
				return repository.UserSkill{}, ErrInvalidProficiency
			}
			next.ProficiencyLevel = in.ProficiencyLevel
		}
		if in.Availability != nil {
			next.Availability = in.Availability
		}
		if in.DesiredProficiency != "" || in.Urgency != "" {
			return repository.UserSkill{}, ErrInvalidInput
		}
	case repository.KindRequest:
		if in.DesiredProficiency != "" {
			if !isValidProficiency(in.DesiredProficiency) {
				return repository.UserSkill{}, ErrInvalidProficiency
			}
			next.DesiredProficiency = in.DesiredProficiency
		}
		if in.Urgency != "" {
			if !isValidUrgency(in.Urgency) {
				return repository.UserSkill{}, ErrInvalidUrgency
			}
			next.Urgency = in.Urgency
		}
		if in.ProficiencyLevel != "" || in.Availability != nil {
			return repository.UserSkill{}, ErrInvalidInput
		}
	}

	updated, err := u.repo.Update(ctx, next)
	if err != nil {
		if errors.Is(err, repository.ErrUserSkillNotFound) {
			return repository.UserSkill{}, ErrSkillNotFound
		}
		u.logger.Printf("user skill update error | id=%s err=%v", userSkillID, err)
		return repository.UserSkill{}, ErrInternal
	}

	u.invalidateMatches(ctx, userID)
	return updated, nil
}

func (u *UserSkill) DeleteUserSkill(ctx context.Context, userID uuid.UUID, userSkillID uuid.UUID) error {
	if userSkillID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.Delete(ctx, userSkillID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillNotFound):
			return ErrSkillNotFound
		case errors.Is(err, repository.ErrUserSkillForbidden):
			return ErrForbidden
		default:
			u.logger.Printf("user skill delete error | id=%s err=%v", userSkillID, err)
			return ErrInternal
		}
	}
	u.invalidateMatches(ctx, userID)
	return nil
}

func (u *UserSkill) invalidateMatches(ctx context.Context, userID uuid.UUID) {
	if err := u.cache.Delete(ctx, cache.MatchesKey(userID.String())); err != nil {
		u.logger.Printf("matches cache invalidation error | user_id=%s err=%v", userID, err)
	}
}

func isOwner(us repository.UserSkill, actorID uuid.UUID) bool {
	return us.UserID == actorID
}

func isValidProficiency(v string) bool {
	switch v {
	case "Beginner", "Intermediate", "Advanced":
		return true
	}
	return false
}

func isValidUrgency(v string) bool {
	switch v {
	case "Low", "Medium", "High":
		return true
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
