package postgres

import (
	"context"
	"errors"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, full_name, email, phone, title, education, skills,
       resume_key, resume_url, password_hash, is_verified, refresh_token,
       reset_code, reset_code_expires_at, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users
              (id, full_name, email, phone, title, education, skills, resume_key, resume_url, password_hash, is_verified, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`

	resumeKey, resumeURL := docFields(user.Resume)
	_, err := r.db.Exec(ctx, query,
		user.ID, user.FullName, nullable(user.Email), user.Phone, user.Title, user.Education,
		pq.Array(user.Skills), resumeKey, resumeURL, user.PasswordHash, user.IsVerified,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("User with this identifier already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR phone = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, identifier))
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET full_name = $2, phone = $3, title = $4, education = $5,
              skills = $6, resume_key = $7, resume_url = $8, updated_at = $9
              WHERE id = $1`
	resumeKey, resumeURL := docFields(user.Resume)
	_, err := r.db.Exec(ctx, query,
		user.ID, user.FullName, user.Phone, user.Title, user.Education,
		pq.Array(user.Skills), resumeKey, resumeURL, user.UpdatedAt,
	)
	return err
}

func (r *userRepo) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		id, token,
	)
	return err
}

func (r *userRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	return err
}

func (r *userRepo) SetResetCode(ctx context.Context, id string, code string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_code = $2, reset_code_expires_at = $3, updated_at = now() WHERE id = $1`,
		id, code, expiresAt,
	)
	return err
}

func (r *userRepo) ClearResetCode(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_code = NULL, reset_code_expires_at = NULL, updated_at = now() WHERE id = $1`,
		id,
	)
	return err
}

func (r *userRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *userRepo) scanOne(row rowScanner) (*domain.User, error) {
	user, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) scanRow(row rowScanner) (*domain.User, error) {
	var user domain.User
	var email, resumeKey, resumeURL *string
	var skills []string
	err := row.Scan(
		&user.ID, &user.FullName, &email, &user.Phone, &user.Title, &user.Education,
		pq.Array(&skills), &resumeKey, &resumeURL, &user.PasswordHash, &user.IsVerified,
		&user.RefreshToken, &user.ResetCode, &user.ResetCodeExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		user.Email = *email
	}
	user.Skills = skills
	if resumeKey != nil && resumeURL != nil {
		user.Resume = &domain.Document{Key: *resumeKey, URL: *resumeURL}
	}
	return &user, nil
}

func docFields(doc *domain.Document) (*string, *string) {
	if doc == nil {
		return nil, nil
	}
	return &doc.Key, &doc.URL
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
