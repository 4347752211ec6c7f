package postgres

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, company_name, email, avatar_key, avatar_url, about,
       no_of_employees, password_hash, is_verified, refresh_token, created_at, updated_at`

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	query := `INSERT INTO companies
              (id, company_name, email, avatar_key, avatar_url, about, no_of_employees, password_hash, is_verified, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`

	avatarKey, avatarURL := docFields(company.Avatar)
	_, err := r.db.Exec(ctx, query,
		company.ID, company.CompanyName, company.Email, avatarKey, avatarURL,
		company.About, company.NoOfEmployees, company.PasswordHash, company.IsVerified,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Company with this identifier already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *companyRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, identifier))
}

func (r *companyRepo) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE lower(company_name) = lower($1)`
	return r.scanOne(r.db.QueryRow(ctx, query, name))
}

func (r *companyRepo) Update(ctx context.Context, company *domain.Company) error {
	query := `UPDATE companies SET company_name = $2, avatar_key = $3, avatar_url = $4,
              about = $5, no_of_employees = $6, updated_at = $7
              WHERE id = $1`
	avatarKey, avatarURL := docFields(company.Avatar)
	_, err := r.db.Exec(ctx, query,
		company.ID, company.CompanyName, avatarKey, avatarURL,
		company.About, company.NoOfEmployees, company.UpdatedAt,
	)
	return err
}

func (r *companyRepo) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE companies SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		id, token,
	)
	return err
}

func (r *companyRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.Company, int64, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		company, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *companyRepo) scanOne(row rowScanner) (*domain.Company, error) {
	company, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) scanRow(row rowScanner) (*domain.Company, error) {
	var company domain.Company
	var avatarKey, avatarURL *string
	err := row.Scan(
		&company.ID, &company.CompanyName, &company.Email, &avatarKey, &avatarURL,
		&company.About, &company.NoOfEmployees, &company.PasswordHash, &company.IsVerified,
		&company.RefreshToken, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if avatarKey != nil && avatarURL != nil {
		company.Avatar = &domain.Document{Key: *avatarKey, URL: *avatarURL}
	}
	return &company, nil
}
