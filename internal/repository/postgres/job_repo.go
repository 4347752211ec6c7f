package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `j.id, j.company_id, j.title, j.about, j.location, j.employment_type,
       j.positions_available, j.remaining_positions, j.last_date, j.currently_hiring,
       j.education, j.skills, j.good_to_have, j.experience, j.contact_email,
       j.created_at, j.updated_at`

const jobWithCompanyColumns = jobColumns + `, c.company_name, c.avatar_url`

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs
              (company_id, title, about, location, employment_type, positions_available,
               remaining_positions, last_date, currently_hiring, education, skills,
               good_to_have, experience, contact_email, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
              RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		job.CompanyID, job.Title, job.About, job.Location, job.EmploymentType,
		job.PositionsAvailable, job.RemainingPositions, job.LastDate, job.CurrentlyHiring,
		job.Education, pq.Array(job.Skills), job.GoodToHave, job.Experience, job.ContactEmail,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.JobWithCompany, error) {
	query := `SELECT ` + jobWithCompanyColumns + `
              FROM jobs j JOIN companies c ON c.id = j.company_id
              WHERE j.id = $1`
	job, err := scanJobWithCompany(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.JobWithCompany, int64, error) {
	query := `SELECT ` + jobWithCompanyColumns + `
              FROM jobs j JOIN companies c ON c.id = j.company_id
              ORDER BY j.created_at DESC LIMIT $1 OFFSET $2`
	return r.fetchWithCompany(ctx, query, `SELECT COUNT(*) FROM jobs`, nil, limit, offset)
}

func (r *jobRepo) FetchByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]domain.Job, int64, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j
              WHERE j.company_id = $1
              ORDER BY j.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE company_id = $1`, companyID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) FetchBySkills(ctx context.Context, skills []string, limit, offset int) ([]domain.JobWithCompany, int64, error) {
	query := `SELECT ` + jobWithCompanyColumns + `
              FROM jobs j JOIN companies c ON c.id = j.company_id
              WHERE j.skills && $1 AND j.currently_hiring
              ORDER BY cardinality(ARRAY(SELECT unnest(j.skills) INTERSECT SELECT unnest($1::text[]))) DESC,
                       j.created_at DESC
              LIMIT $2 OFFSET $3`
	countQuery := `SELECT COUNT(*) FROM jobs j WHERE j.skills && $1 AND j.currently_hiring`
	return r.fetchWithCompany(ctx, query, countQuery, []any{pq.Array(skills)}, limit, offset)
}

func (r *jobRepo) FetchFiltered(ctx context.Context, filter domain.JobFilter) ([]domain.JobWithCompany, int64, error) {
	var conds []string
	var args []any
	if filter.EmploymentType != "" {
		args = append(args, filter.EmploymentType)
		conds = append(conds, fmt.Sprintf("j.employment_type = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		conds = append(conds, fmt.Sprintf("j.location = $%d", len(args)))
	}
	if filter.LastDateAfter != nil {
		args = append(args, *filter.LastDateAfter)
		conds = append(conds, fmt.Sprintf("j.last_date >= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s
              FROM jobs j JOIN companies c ON c.id = j.company_id%s
              ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d`,
		jobWithCompanyColumns, where, len(args)+1, len(args)+2)
	countQuery := `SELECT COUNT(*) FROM jobs j` + where
	return r.fetchWithCompany(ctx, query, countQuery, args, limit, offset)
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $2, about = $3, location = $4, employment_type = $5,
              positions_available = $6, remaining_positions = $7, last_date = $8,
              currently_hiring = $9, education = $10, skills = $11, good_to_have = $12,
              experience = $13, contact_email = $14, updated_at = now()
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.About, job.Location, job.EmploymentType,
		job.PositionsAvailable, job.RemainingPositions, job.LastDate, job.CurrentlyHiring,
		job.Education, pq.Array(job.Skills), job.GoodToHave, job.Experience, job.ContactEmail,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) fetchWithCompany(ctx context.Context, query, countQuery string, args []any, limit, offset int) ([]domain.JobWithCompany, int64, error) {
	rows, err := r.db.Query(ctx, query, append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.JobWithCompany
	for rows.Next() {
		job, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var job domain.Job
	var skills []string
	err := row.Scan(
		&job.ID, &job.CompanyID, &job.Title, &job.About, &job.Location, &job.EmploymentType,
		&job.PositionsAvailable, &job.RemainingPositions, &job.LastDate, &job.CurrentlyHiring,
		&job.Education, pq.Array(&skills), &job.GoodToHave, &job.Experience, &job.ContactEmail,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Skills = skills
	return &job, nil
}

func scanJobWithCompany(row rowScanner) (*domain.JobWithCompany, error) {
	var job domain.JobWithCompany
	var skills []string
	err := row.Scan(
		&job.ID, &job.CompanyID, &job.Title, &job.About, &job.Location, &job.EmploymentType,
		&job.PositionsAvailable, &job.RemainingPositions, &job.LastDate, &job.CurrentlyHiring,
		&job.Education, pq.Array(&skills), &job.GoodToHave, &job.Experience, &job.ContactEmail,
		&job.CreatedAt, &job.UpdatedAt,
		&job.CompanyName, &job.CompanyAvatarURL,
	)
	if err != nil {
		return nil, err
	}
	job.Skills = skills
	return &job, nil
}
