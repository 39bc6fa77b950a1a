package usecase

import (
	"context"
	"log"

	"skill-swap/internal/repository"
)

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]repository.Skill, error)
}

type SkillCatalog struct {
	repo   repository.SkillRepository
	logger *log.Logger
}

func NewSkillUsecase(repo repository.SkillRepository, logger *log.Logger) *SkillCatalog {
	if logger == nil {
		logger = log.Default()
	}
	return &SkillCatalog{repo: repo, logger: logger}
}

func (u *SkillCatalog) ListSkills(ctx context.Context) ([]repository.Skill, error) {
	skills, err := u.repo.GetAllSkills(ctx)
	if err != nil {
		u.logger.Printf("skill catalog list error | err=%v", err)
		return nil, ErrInternal
	}
	return skills, nil
}
