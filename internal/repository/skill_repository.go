package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"skill-swap/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

type Skill struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (Skill, error)
	EnsureByName(ctx context.Context, name, description string) (Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM skills ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM skills WHERE id = $1`,
		id,
	)

	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		return Skill{}, err
	}
	return s, nil
}

// EnsureByName resolves a skill identity by name, creating it on first
// reference. The no-op update makes RETURNING yield the existing row on
// conflict.
func (r *PostgresSkillRepository) EnsureByName(ctx context.Context, name, description string) (Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Skill{}, ErrSkillNotFound
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name, description)
		 VALUES ($1, $2, NULLIF($3, ''))
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, COALESCE(description, ''), created_at`,
		uuid.New(), name, strings.TrimSpace(description),
	)

	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
		return Skill{}, err
	}
	return s, nil
}
