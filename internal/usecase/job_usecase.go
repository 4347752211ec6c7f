package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

var (
	validJobLocations       = []string{"remote", "onsite", "hybrid"}
	validJobEmploymentTypes = []string{"full_time", "part_time", "internship", "contract"}
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
}

func NewJobUsecase(jobRepo domain.JobRepository, companyRepo domain.CompanyRepository) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
	}
}

func (u *jobUsecase) CreateJob(ctx context.Context, companyID string, job *domain.Job) error {
	if _, err := u.companyRepo.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Company profile not found")
		}
		return apperror.Storage(err)
	}
	job.CompanyID = companyID

	if err := validateJob(job); err != nil {
		return err
	}

	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()
	return u.jobRepo.Create(ctx, job)
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.JobWithCompany, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Storage(err)
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, limit int) ([]domain.JobWithCompany, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	return u.jobRepo.Fetch(ctx, limit, offset)
}

func (u *jobUsecase) ListJobsByCompany(ctx context.Context, companyID string, page, limit int) ([]domain.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	return u.jobRepo.FetchByCompanyID(ctx, companyID, limit, offset)
}

// MatchBySkills lists jobs whose required skills overlap the given set.
// An empty skill set falls back to a plain paginated listing.
func (u *jobUsecase) MatchBySkills(ctx context.Context, skills []string, page, limit int) ([]domain.JobWithCompany, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var trimmed []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	if len(trimmed) == 0 {
		return u.jobRepo.Fetch(ctx, limit, offset)
	}
	return u.jobRepo.FetchBySkills(ctx, trimmed, limit, offset)
}

func (u *jobUsecase) FilterJobs(ctx context.Context, filter domain.JobFilter) ([]domain.JobWithCompany, int64, error) {
	if filter.EmploymentType == "" && filter.Location == "" && filter.LastDateAfter == nil {
		return nil, 0, apperror.Validation("At least one filter parameter is required")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return u.jobRepo.FetchFiltered(ctx, filter)
}

func (u *jobUsecase) UpdateJob(ctx context.Context, companyID string, job *domain.Job) error {
	existing, err := u.jobRepo.GetByID(ctx, job.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Storage(err)
	}
	// Ownership check: only the posting company may modify its job
	if existing.CompanyID != companyID {
		return apperror.Forbidden("You can only modify your own job postings")
	}
	job.CompanyID = companyID

	if err := validateJob(job); err != nil {
		return err
	}

	job.UpdatedAt = time.Now()
	return u.jobRepo.Update(ctx, job)
}

func (u *jobUsecase) DeleteJob(ctx context.Context, companyID string, id int64) error {
	existing, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Storage(err)
	}
	if existing.CompanyID != companyID {
		return apperror.Forbidden("You can only delete your own job postings")
	}
	return u.jobRepo.Delete(ctx, id)
}

func validateJob(job *domain.Job) error {
	if strings.TrimSpace(job.Title) == "" {
		return apperror.Validation("Title is required")
	}
	if job.Location != "" && !contains(validJobLocations, job.Location) {
		return apperror.Validation("Location must be remote, onsite, or hybrid")
	}
	if job.EmploymentType != "" && !contains(validJobEmploymentTypes, job.EmploymentType) {
		return apperror.Validation("Employment type must be full_time, part_time, internship, or contract")
	}
	if job.RemainingPositions > job.PositionsAvailable {
		return apperror.Validation("Remaining positions cannot exceed positions available")
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
