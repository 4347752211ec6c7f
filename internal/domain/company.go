package domain

import (
	"context"
	"time"
)

// Company is a verified employer account.
type Company struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"company_name"`
	Email         string    `json:"email"`
	Avatar        *Document `json:"avatar,omitempty"`
	About         *string   `json:"about,omitempty"`
	NoOfEmployees int       `json:"no_of_employees"`
	PasswordHash  string    `json:"-"`
	IsVerified    bool      `json:"is_verified"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Company, error)
	GetByName(ctx context.Context, name string) (*Company, error)
	Update(ctx context.Context, company *Company) error
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	Fetch(ctx context.Context, limit, offset int) ([]Company, int64, error)
}

type UpdateCompanyInput struct {
	CompanyName   *string
	About         *string
	NoOfEmployees *int
	Avatar        *FileUpload
}

type CompanyUsecase interface {
	GetProfile(ctx context.Context, companyID string) (*Company, error)
	UpdateProfile(ctx context.Context, companyID string, input *UpdateCompanyInput) (*Company, error)
	GetByName(ctx context.Context, name string) (*Company, error)
	ListCompanies(ctx context.Context, page, limit int) ([]Company, int64, error)
}
