package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skill-swap/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrUserSkillNotFound  = errors.New("user skill not found")
	ErrUserSkillForbidden = errors.New("forbidden")
)

const (
	KindOffer   = "offer"
	KindRequest = "request"

	UserSkillStatusActive   = "Active"
	UserSkillStatusArchived = "Archived"
)

// UserSkill is one user's stance on one skill. Offer rows carry
// ProficiencyLevel and Availability; request rows carry
// DesiredProficiency and Urgency. The other group is always empty.
type UserSkill struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	SkillID            uuid.UUID
	SkillName          string
	Kind               string
	Description        string
	Status             string
	ProficiencyLevel   string
	Availability       []string
	DesiredProficiency string
	Urgency            string
	CreatedAt          time.Time
}

// CandidateProfile is the owner snapshot carried along match-direction rows.
type CandidateProfile struct {
	ID                uuid.UUID
	Name              string
	Bio               string
	Region            string
	Timezone          string
	ProfilePictureURL string
	KarmaPoints       int
	Rating            float64
}

// MatchRow is a user-skill row of another user joined with its owner.
type MatchRow struct {
	Owner CandidateProfile
	Skill UserSkill
}

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID, kind string) ([]UserSkill, error)
	FindByID(ctx context.Context, id uuid.UUID) (UserSkill, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserSkill, error)
	Create(ctx context.Context, us UserSkill) (UserSkill, error)
	Update(ctx context.Context, us UserSkill) (UserSkill, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	FindOffersForSkills(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]MatchRow, error)
	FindRequestsForSkills(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]MatchRow, error)
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const userSkillColumns = `us.id, us.user_id, us.skill_id, s.name, us.kind,
	COALESCE(us.description, ''), us.status,
	COALESCE(us.proficiency_level, ''), COALESCE(us.availability, '{}'),
	COALESCE(us.desired_proficiency, ''), COALESCE(us.urgency, ''), us.created_at`

func scanUserSkill(row database.Row) (UserSkill, error) {
	var us UserSkill
	err := row.Scan(
		&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Kind,
		&us.Description, &us.Status,
		&us.ProficiencyLevel, &us.Availability,
		&us.DesiredProficiency, &us.Urgency, &us.CreatedAt,
	)
	return us, err
}

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID, kind string) ([]UserSkill, error) {
	query := `SELECT ` + userSkillColumns + `
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1`
	args := []any{userID}
	if kind != "" {
		query += ` AND us.kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY us.created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserSkill, 0)
	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) FindByID(ctx context.Context, id uuid.UUID) (UserSkill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userSkillColumns+`
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.id = $1`,
		id,
	)

	us, err := scanUserSkill(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return UserSkill{}, ErrUserSkillNotFound
		}
		return UserSkill{}, err
	}
	return us, nil
}

func (r *PostgresUserSkillRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserSkill, error) {
	out := make(map[uuid.UUID]UserSkill, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userSkillColumns+`
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, err
		}
		out[us.ID] = us
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) Create(ctx context.Context, us UserSkill) (UserSkill, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_skills
		   (id, user_id, skill_id, kind, description, status,
		    proficiency_level, availability, desired_proficiency, urgency)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6,
		    NULLIF($7, ''), $8, NULLIF($9, ''), NULLIF($10, ''))`,
		us.ID, us.UserID, us.SkillID, us.Kind, us.Description, us.Status,
		us.ProficiencyLevel, us.Availability, us.DesiredProficiency, us.Urgency,
	)
	if err != nil {
		return UserSkill{}, err
	}
	return r.FindByID(ctx, us.ID)
}

func (r *PostgresUserSkillRepository) Update(ctx context.Context, us UserSkill) (UserSkill, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE user_skills
		 SET description = NULLIF($1, ''), status = $2,
		     proficiency_level = NULLIF($3, ''), availability = $4,
		     desired_proficiency = NULLIF($5, ''), urgency = NULLIF($6, '')
		 WHERE id = $7 AND user_id = $8`,
		us.Description, us.Status,
		us.ProficiencyLevel, us.Availability,
		us.DesiredProficiency, us.Urgency,
		us.ID, us.UserID,
	)
	if err != nil {
		return UserSkill{}, err
	}
	if rowsAffected == 0 {
		return UserSkill{}, ErrUserSkillNotFound
	}
	return r.FindByID(ctx, us.ID)
}

func (r *PostgresUserSkillRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM user_skills WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return ErrUserSkillNotFound
		}
		return err
	}
	if owner != userID {
		return ErrUserSkillForbidden
	}

	_, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE id = $1`, id)
	return err
}

func (r *PostgresUserSkillRepository) FindOffersForSkills(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]MatchRow, error) {
	return r.findMatchRows(ctx, KindOffer, skillIDs, excludeUserID)
}

func (r *PostgresUserSkillRepository) FindRequestsForSkills(ctx context.Context, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]MatchRow, error) {
	return r.findMatchRows(ctx, KindRequest, skillIDs, excludeUserID)
}

func (r *PostgresUserSkillRepository) findMatchRows(ctx context.Context, kind string, skillIDs []uuid.UUID, excludeUserID uuid.UUID) ([]MatchRow, error) {
	if len(skillIDs) == 0 {
		return []MatchRow{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, COALESCE(u.bio, ''), COALESCE(u.region, ''),
		        COALESCE(u.timezone, ''), COALESCE(u.profile_picture_url, ''),
		        u.karma_points, u.rating,
		        `+userSkillColumns+`
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 JOIN users u ON u.id = us.user_id
		 WHERE us.kind = $1
		   AND us.status = $2
		   AND us.skill_id = ANY($3)
		   AND us.user_id <> $4
		 ORDER BY us.created_at ASC`,
		kind, UserSkillStatusActive, skillIDs, excludeUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MatchRow, 0)
	for rows.Next() {
		var m MatchRow
		err := rows.Scan(
			&m.Owner.ID, &m.Owner.Name, &m.Owner.Bio, &m.Owner.Region,
			&m.Owner.Timezone, &m.Owner.ProfilePictureURL,
			&m.Owner.KarmaPoints, &m.Owner.Rating,
			&m.Skill.ID, &m.Skill.UserID, &m.Skill.SkillID, &m.Skill.SkillName, &m.Skill.Kind,
			&m.Skill.Description, &m.Skill.Status,
			&m.Skill.ProficiencyLevel, &m.Skill.Availability,
			&m.Skill.DesiredProficiency, &m.Skill.Urgency, &m.Skill.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
