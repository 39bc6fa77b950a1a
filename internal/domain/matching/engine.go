package matching

import (
	"sort"

	"github.com/google/uuid"
)

// Candidate is the profile snapshot of another user surfaced by matching.
type Candidate struct {
	UserID            uuid.UUID
	Name              string
	Bio               string
	Region            string
	Timezone          string
	ProfilePictureURL string
	KarmaPoints       int
	Rating            float64
}

// SkillEntry is one matched user-skill row owned by a candidate.
type SkillEntry struct {
	UserSkillID        uuid.UUID
	SkillID            uuid.UUID
	SkillName          string
	Description        string
	ProficiencyLevel   string
	Availability       []string
	DesiredProficiency string
	Urgency            string
}

// Row pairs a matched skill row with its owning candidate.
type Row struct {
	Candidate Candidate
	Skill     SkillEntry
}

type Result struct {
	Candidate          Candidate
	SkillsOffered      []SkillEntry
	SkillsRequested    []SkillEntry
	CompatibilityScore int
	MutualInterests    []string
}

type accumulator struct {
	candidate       Candidate
	skillsOffered   []SkillEntry
	skillsRequested []SkillEntry
	score           int
	interestSet     map[string]struct{}
	interests       []string
}

// Aggregate groups matched rows by candidate and ranks the survivors.
// offeredToMe holds other users' offer rows for skills the current user
// wants; wantedFromMe holds their request rows for skills the current user
// offers. A candidate qualifies only when both directions are non-empty;
// the score counts every contributing row regardless of direction.
func Aggregate(offeredToMe, wantedFromMe []Row) []Result {
	accs := make(map[uuid.UUID]*accumulator)
	order := make([]uuid.UUID, 0, len(offeredToMe)+len(wantedFromMe))

	add := func(r Row, offered bool) {
		if r.Candidate.UserID == uuid.Nil {
			return
		}
		acc, ok := accs[r.Candidate.UserID]
		if !ok {
			acc = &accumulator{
				candidate:   r.Candidate,
				interestSet: make(map[string]struct{}),
			}
			accs[r.Candidate.UserID] = acc
			order = append(order, r.Candidate.UserID)
		}

		if offered {
			acc.skillsOffered = append(acc.skillsOffered, r.Skill)
		} else {
			acc.skillsRequested = append(acc.skillsRequested, r.Skill)
		}

		if _, seen := acc.interestSet[r.Skill.SkillName]; !seen {
			acc.interestSet[r.Skill.SkillName] = struct{}{}
			acc.interests = append(acc.interests, r.Skill.SkillName)
		}
		acc.score++
	}

	for _, r := range offeredToMe {
		add(r, true)
	}
	for _, r := range wantedFromMe {
		add(r, false)
	}

	results := make([]Result, 0, len(order))
	for _, id := range order {
		acc := accs[id]
		if len(acc.skillsOffered) == 0 || len(acc.skillsRequested) == 0 {
			continue
		}
		results = append(results, Result{
			Candidate:          acc.candidate,
			SkillsOffered:      acc.skillsOffered,
			SkillsRequested:    acc.skillsRequested,
			CompatibilityScore: acc.score,
			MutualInterests:    acc.interests,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompatibilityScore > results[j].CompatibilityScore
	})

	return results
}
