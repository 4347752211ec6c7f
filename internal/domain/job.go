package domain

import (
	"context"
	"time"
)

type Job struct {
	ID                 int64      `json:"id"`
	CompanyID          string     `json:"company_id"`
	Title              string     `json:"title"`
	About              string     `json:"about"`
	Location           string     `json:"location"`        // remote, onsite, hybrid
	EmploymentType     string     `json:"employment_type"` // full_time, part_time, internship, contract
	PositionsAvailable int        `json:"positions_available"`
	RemainingPositions int        `json:"remaining_positions"`
	LastDate           *time.Time `json:"last_date,omitempty"`
	CurrentlyHiring    bool       `json:"currently_hiring"`
	Education          *string    `json:"education,omitempty"`
	Skills             []string   `json:"skills"`
	GoodToHave         *string    `json:"good_to_have,omitempty"`
	Experience         *string    `json:"experience,omitempty"`
	ContactEmail       *string    `json:"contact_email,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// JobWithCompany extends Job with employer information for listings.
type JobWithCompany struct {
	Job
	CompanyName      string  `json:"company_name"`
	CompanyAvatarURL *string `json:"company_avatar_url,omitempty"`
}

// JobFilter narrows job listings; zero-value fields are ignored.
type JobFilter struct {
	EmploymentType string
	Location       string
	LastDateAfter  *time.Time
	Page           int
	Limit          int
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*JobWithCompany, error)
	Fetch(ctx context.Context, limit, offset int) ([]JobWithCompany, int64, error)
	FetchByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]Job, int64, error)
	// FetchBySkills returns jobs whose skills overlap the given set.
	FetchBySkills(ctx context.Context, skills []string, limit, offset int) ([]JobWithCompany, int64, error)
	FetchFiltered(ctx context.Context, filter JobFilter) ([]JobWithCompany, int64, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, companyID string, job *Job) error
	GetJob(ctx context.Context, id int64) (*JobWithCompany, error)
	ListJobs(ctx context.Context, page, limit int) ([]JobWithCompany, int64, error)
	ListJobsByCompany(ctx context.Context, companyID string, page, limit int) ([]Job, int64, error)
	MatchBySkills(ctx context.Context, skills []string, page, limit int) ([]JobWithCompany, int64, error)
	FilterJobs(ctx context.Context, filter JobFilter) ([]JobWithCompany, int64, error)
	UpdateJob(ctx context.Context, companyID string, job *Job) error
	DeleteJob(ctx context.Context, companyID string, id int64) error
}
