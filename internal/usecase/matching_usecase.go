package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrMatchingFailed = errors.New("matching failed")

const matchesCacheTTL = 5 * time.Minute

type MatchingUsecase interface {
	ComputeMatches(ctx context.Context, userID uuid.UUID) ([]matching.Result, error)
}

type Matching struct {
	userSkills repository.UserSkillRepository
	cache      *cache.Redis
	logger     *log.Logger
}

func NewMatchingUsecase(userSkills repository.UserSkillRepository, c *cache.Redis, logger *log.Logger) *Matching {
	if logger == nil {
		logger = log.Default()
	}
	return &Matching{userSkills: userSkills, cache: c, logger: logger}
}

// ComputeMatches finds every user who offers something userID wants and
// wants something userID offers, aggregated and ranked by how many skill
// rows matched in either direction.
func (u *Matching) ComputeMatches(ctx context.Context, userID uuid.UUID) ([]matching.Result, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	cacheKey := cache.MatchesKey(userID.String())
	var cached []matching.Result
	if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	myWants, err := u.userSkills.FindByUserID(ctx, userID, repository.KindRequest)
	if err != nil {
		u.logger.Printf("matching error | user_id=%s stage=wants err=%v", userID, err)
		return nil, ErrMatchingFailed
	}
	myOffers, err := u.userSkills.FindByUserID(ctx, userID, repository.KindOffer)
	if err != nil {
		u.logger.Printf("matching error | user_id=%s stage=offers err=%v", userID, err)
		return nil, ErrMatchingFailed
	}

	wantedSkillIDs := skillIDs(myWants)
	offeredSkillIDs := skillIDs(myOffers)

	// The two direction queries are independent; both must finish before
	// aggregation.
	var offeredToMe, wantedFromMe []repository.MatchRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offeredToMe, err = u.userSkills.FindOffersForSkills(gctx, wantedSkillIDs, userID)
		return err
	})
	g.Go(func() error {
		var err error
		wantedFromMe, err = u.userSkills.FindRequestsForSkills(gctx, offeredSkillIDs, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		u.logger.Printf("matching error | user_id=%s stage=candidates err=%v", userID, err)
		return nil, ErrMatchingFailed
	}

	results := matching.Aggregate(toEngineRows(offeredToMe), toEngineRows(wantedFromMe))

	if err := u.cache.SetJSON(ctx, cacheKey, results, matchesCacheTTL); err != nil {
		u.logger.Printf("matches cache write error | user_id=%s err=%v", userID, err)
	}
	return results, nil
}

func skillIDs(items []repository.UserSkill) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.Status != repository.UserSkillStatusActive {
			continue
		}
		if _, ok := seen[it.SkillID]; ok {
			continue
		}
		seen[it.SkillID] = struct{}{}
		out = append(out, it.SkillID)
	}
	return out
}

func toEngineRows(rows []repository.MatchRow) []matching.Row {
	out := make([]matching.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, matching.Row{
			Candidate: matching.Candidate{
				UserID:            r.Owner.ID,
				Name:              r.Owner.Name,
				Bio:               r.Owner.Bio,
				Region:            r.Owner.Region,
				Timezone:          r.Owner.Timezone,
				ProfilePictureURL: r.Owner.ProfilePictureURL,
				KarmaPoints:       r.Owner.KarmaPoints,
				Rating:            r.Owner.Rating,
			},
			Skill: matching.SkillEntry{
				UserSkillID:        r.Skill.ID,
				SkillID:            r.Skill.SkillID,
				SkillName:          r.Skill.SkillName,
				Description:        r.Skill.Description,
				ProficiencyLevel:   r.Skill.ProficiencyLevel,
				Availability:       r.Skill.Availability,
				DesiredProficiency: r.Skill.DesiredProficiency,
				Urgency:            r.Skill.Urgency,
			},
		})
	}
	return out
}
