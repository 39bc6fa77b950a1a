package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skill-swap/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrMatchRequestNotFound = errors.New("match request not found")

	// ErrActivePairExists reports a concurrent insert that lost to the
	// partial unique index over (sender_id, receiver_id) for active rows.
	ErrActivePairExists = errors.New("active request already exists for pair")
)

const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

const (
	SideOffer   = "offer"
	SideRequest = "request"
)

// RequestSkill is one exchange term: a reference to the originating
// user-skill row plus a denormalized name snapshot for display stability.
type RequestSkill struct {
	UserSkillID uuid.UUID
	SkillID     uuid.UUID
	SkillName   string
}

type MatchRequest struct {
	ID              uuid.UUID
	SenderID        uuid.UUID
	ReceiverID      uuid.UUID
	SkillsOffered   []RequestSkill
	SkillsRequested []RequestSkill
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequestTermDetail is a term joined back to its live user-skill row.
// Resolved is false when that row has since been deleted; display
// attributes are then zero values and the name snapshot is all that
// survives.
type RequestTermDetail struct {
	UserSkillID        uuid.UUID
	SkillID            uuid.UUID
	SkillName          string
	Resolved           bool
	ProficiencyLevel   string
	Availability       []string
	DesiredProficiency string
	Urgency            string
}

type RequestDetail struct {
	ID              uuid.UUID
	SenderID        uuid.UUID
	ReceiverID      uuid.UUID
	Counterpart     CandidateProfile
	SkillsOffered   []RequestTermDetail
	SkillsRequested []RequestTermDetail
	Status          string
	CreatedAt       time.Time
}

type MatchRequestRepository interface {
	FindActiveByPair(ctx context.Context, senderID, receiverID uuid.UUID) (MatchRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (MatchRequest, error)
	CreateWithTerms(ctx context.Context, mr MatchRequest) (MatchRequest, error)
	MergeTerms(ctx context.Context, requestID uuid.UUID, offered, requested []RequestSkill) (MatchRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (MatchRequest, error)
	ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]RequestDetail, error)
	ListSent(ctx context.Context, senderID uuid.UUID) ([]RequestDetail, error)
}

type PostgresMatchRequestRepository struct {
	db database.DB
}

func NewPostgresMatchRequestRepository(db database.DB) *PostgresMatchRequestRepository {
	return &PostgresMatchRequestRepository{db: db}
}

func (r *PostgresMatchRequestRepository) FindActiveByPair(ctx context.Context, senderID, receiverID uuid.UUID) (MatchRequest, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, sender_id, receiver_id, status, created_at, updated_at
		 FROM match_requests
		 WHERE sender_id = $1 AND receiver_id = $2 AND status IN ($3, $4)`,
		senderID, receiverID, StatusPending, StatusAccepted,
	)

	mr, err := scanMatchRequest(row)
	if err != nil {
		return MatchRequest{}, err
	}
	return r.loadTerms(ctx, mr)
}

func (r *PostgresMatchRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (MatchRequest, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, sender_id, receiver_id, status, created_at, updated_at
		 FROM match_requests WHERE id = $1`,
		id,
	)

	mr, err := scanMatchRequest(row)
	if err != nil {
		return MatchRequest{}, err
	}
	return r.loadTerms(ctx, mr)
}

func (r *PostgresMatchRequestRepository) CreateWithTerms(ctx context.Context, mr MatchRequest) (MatchRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return MatchRequest{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO match_requests (id, sender_id, receiver_id, status)
		 VALUES ($1, $2, $3, $4)`,
		mr.ID, mr.SenderID, mr.ReceiverID, StatusPending,
	)
	if err != nil {
		if isUniquePairViolation(err) {
			return MatchRequest{}, ErrActivePairExists
		}
		return MatchRequest{}, err
	}

	if err := insertTerms(ctx, tx, mr.ID, SideOffer, mr.SkillsOffered); err != nil {
		return MatchRequest{}, err
	}
	if err := insertTerms(ctx, tx, mr.ID, SideRequest, mr.SkillsRequested); err != nil {
		return MatchRequest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return MatchRequest{}, err
	}
	return r.GetByID(ctx, mr.ID)
}

// MergeTerms unions new terms into an existing request, deduplicating by
// skill id. The request row is locked for the duration so concurrent
// merges serialize; status is left untouched.
func (r *PostgresMatchRequestRepository) MergeTerms(ctx context.Context, requestID uuid.UUID, offered, requested []RequestSkill) (MatchRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return MatchRequest{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	var status string
	row := tx.QueryRow(ctx, `SELECT status FROM match_requests WHERE id = $1 FOR UPDATE`, requestID)
	if err := row.Scan(&status); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return MatchRequest{}, ErrMatchRequestNotFound
		}
		return MatchRequest{}, err
	}

	if err := insertTerms(ctx, tx, requestID, SideOffer, offered); err != nil {
		return MatchRequest{}, err
	}
	if err := insertTerms(ctx, tx, requestID, SideRequest, requested); err != nil {
		return MatchRequest{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE match_requests SET updated_at = now() WHERE id = $1`, requestID); err != nil {
		return MatchRequest{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return MatchRequest{}, err
	}
	return r.GetByID(ctx, requestID)
}

func (r *PostgresMatchRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (MatchRequest, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE match_requests SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return MatchRequest{}, err
	}
	if rowsAffected == 0 {
		return MatchRequest{}, ErrMatchRequestNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresMatchRequestRepository) ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]RequestDetail, error) {
	return r.listDetails(ctx, `mr.receiver_id`, `mr.sender_id`, receiverID)
}

func (r *PostgresMatchRequestRepository) ListSent(ctx context.Context, senderID uuid.UUID) ([]RequestDetail, error) {
	return r.listDetails(ctx, `mr.sender_id`, `mr.receiver_id`, senderID)
}

func (r *PostgresMatchRequestRepository) listDetails(ctx context.Context, ownCol, counterpartCol string, userID uuid.UUID) ([]RequestDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT mr.id, mr.sender_id, mr.receiver_id, mr.status, mr.created_at,
		        u.id, u.name, COALESCE(u.bio, ''), COALESCE(u.region, ''),
		        COALESCE(u.timezone, ''), COALESCE(u.profile_picture_url, ''),
		        u.karma_points, u.rating
		 FROM match_requests mr
		 JOIN users u ON u.id = `+counterpartCol+`
		 WHERE `+ownCol+` = $1
		 ORDER BY mr.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RequestDetail, 0)
	index := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var d RequestDetail
		err := rows.Scan(
			&d.ID, &d.SenderID, &d.ReceiverID, &d.Status, &d.CreatedAt,
			&d.Counterpart.ID, &d.Counterpart.Name, &d.Counterpart.Bio,
			&d.Counterpart.Region, &d.Counterpart.Timezone,
			&d.Counterpart.ProfilePictureURL,
			&d.Counterpart.KarmaPoints, &d.Counterpart.Rating,
		)
		if err != nil {
			return nil, err
		}
		d.SkillsOffered = make([]RequestTermDetail, 0)
		d.SkillsRequested = make([]RequestTermDetail, 0)
		index[d.ID] = len(out)
		ids = append(ids, d.ID)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return out, nil
	}

	termRows, err := r.db.Query(ctx,
		`SELECT mrs.request_id, mrs.side, mrs.user_skill_id, mrs.skill_id, mrs.skill_name,
		        us.id IS NOT NULL,
		        COALESCE(us.proficiency_level, ''), COALESCE(us.availability, '{}'),
		        COALESCE(us.desired_proficiency, ''), COALESCE(us.urgency, '')
		 FROM match_request_skills mrs
		 LEFT JOIN user_skills us ON us.id = mrs.user_skill_id
		 WHERE mrs.request_id = ANY($1)
		 ORDER BY mrs.request_id, mrs.side, mrs.position ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer termRows.Close()

	for termRows.Next() {
		var requestID uuid.UUID
		var side string
		var t RequestTermDetail
		err := termRows.Scan(
			&requestID, &side, &t.UserSkillID, &t.SkillID, &t.SkillName,
			&t.Resolved,
			&t.ProficiencyLevel, &t.Availability,
			&t.DesiredProficiency, &t.Urgency,
		)
		if err != nil {
			return nil, err
		}
		i, ok := index[requestID]
		if !ok {
			continue
		}
		if side == SideOffer {
			out[i].SkillsOffered = append(out[i].SkillsOffered, t)
		} else {
			out[i].SkillsRequested = append(out[i].SkillsRequested, t)
		}
	}
	if err := termRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRequestRepository) loadTerms(ctx context.Context, mr MatchRequest) (MatchRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT side, user_skill_id, skill_id, skill_name
		 FROM match_request_skills
		 WHERE request_id = $1
		 ORDER BY side, position ASC`,
		mr.ID,
	)
	if err != nil {
		return MatchRequest{}, err
	}
	defer rows.Close()

	mr.SkillsOffered = make([]RequestSkill, 0)
	mr.SkillsRequested = make([]RequestSkill, 0)
	for rows.Next() {
		var side string
		var t RequestSkill
		if err := rows.Scan(&side, &t.UserSkillID, &t.SkillID, &t.SkillName); err != nil {
			return MatchRequest{}, err
		}
		if side == SideOffer {
			mr.SkillsOffered = append(mr.SkillsOffered, t)
		} else {
			mr.SkillsRequested = append(mr.SkillsRequested, t)
		}
	}
	if err := rows.Err(); err != nil {
		return MatchRequest{}, err
	}
	return mr, nil
}

func insertTerms(ctx context.Context, tx database.Tx, requestID uuid.UUID, side string, terms []RequestSkill) error {
	for _, t := range terms {
		_, err := tx.Exec(ctx,
			`INSERT INTO match_request_skills (request_id, side, user_skill_id, skill_id, skill_name, position)
			 SELECT $1, $2, $3, $4, $5,
			        COALESCE((SELECT MAX(position) + 1 FROM match_request_skills WHERE request_id = $1 AND side = $2), 0)
			 ON CONFLICT (request_id, side, skill_id) DO NOTHING`,
			requestID, side, t.UserSkillID, t.SkillID, t.SkillName,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanMatchRequest(row database.Row) (MatchRequest, error) {
	var mr MatchRequest
	err := row.Scan(&mr.ID, &mr.SenderID, &mr.ReceiverID, &mr.Status, &mr.CreatedAt, &mr.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return MatchRequest{}, ErrMatchRequestNotFound
		}
		return MatchRequest{}, err
	}
	return mr, nil
}

func isUniquePairViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
