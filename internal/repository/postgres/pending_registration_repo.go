package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type pendingRegistrationRepo struct {
	db *pgxpool.Pool
}

func NewPendingRegistrationRepository(db *pgxpool.Pool) domain.PendingRegistrationRepository {
	return &pendingRegistrationRepo{db: db}
}

func (r *pendingRegistrationRepo) Create(ctx context.Context, pending *domain.PendingRegistration) error {
	payload, err := json.Marshal(pending.Payload)
	if err != nil {
		return apperror.Internal(err)
	}

	query := `INSERT INTO pending_registrations
              (actor_type, identifier, payload, code, code_expires_at, resend_count, last_resend_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err = r.db.QueryRow(ctx, query,
		pending.ActorType, pending.Identifier, payload, pending.Code, pending.CodeExpiresAt,
		pending.ResendCount, pending.LastResendAt, pending.CreatedAt, pending.UpdatedAt,
	).Scan(&pending.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("A registration for this identifier is already pending")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *pendingRegistrationRepo) GetByIdentifier(ctx context.Context, actor domain.ActorType, identifier string) (*domain.PendingRegistration, error) {
	query := `SELECT id, actor_type, identifier, payload, code, code_expires_at, resend_count, last_resend_at, created_at, updated_at
              FROM pending_registrations WHERE actor_type = $1 AND identifier = $2`

	var pending domain.PendingRegistration
	var payload []byte
	err := r.db.QueryRow(ctx, query, actor, identifier).Scan(
		&pending.ID, &pending.ActorType, &pending.Identifier, &payload, &pending.Code,
		&pending.CodeExpiresAt, &pending.ResendCount, &pending.LastResendAt,
		&pending.CreatedAt, &pending.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(payload, &pending.Payload); err != nil {
		return nil, err
	}
	return &pending, nil
}

// UpdateCode writes new code state conditionally on the code the caller read,
// so a resend racing a verify across processes cannot clobber the record.
func (r *pendingRegistrationRepo) UpdateCode(ctx context.Context, pending *domain.PendingRegistration, expectedCode string) error {
	query := `UPDATE pending_registrations
              SET code = $4, code_expires_at = $5, resend_count = $6, last_resend_at = $7, updated_at = now()
              WHERE actor_type = $1 AND identifier = $2 AND code = $3`
	tag, err := r.db.Exec(ctx, query,
		pending.ActorType, pending.Identifier, expectedCode,
		pending.Code, pending.CodeExpiresAt, pending.ResendCount, pending.LastResendAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pendingRegistrationRepo) Delete(ctx context.Context, actor domain.ActorType, identifier string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM pending_registrations WHERE actor_type = $1 AND identifier = $2`,
		actor, identifier,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pendingRegistrationRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM pending_registrations WHERE code_expires_at < $1`,
		before,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
