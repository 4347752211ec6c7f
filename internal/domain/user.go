package domain

import (
	"context"
	"time"
)

// User is a verified job-seeker account. Created exactly once, by
// successful OTP verification; never directly from raw registration input.
type User struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone,omitempty"`
	Title              *string    `json:"title,omitempty"`
	Education          *string    `json:"education,omitempty"`
	Skills             []string   `json:"skills"`
	Resume             *Document  `json:"resume,omitempty"`
	PasswordHash       string     `json:"-"`
	IsVerified         bool       `json:"is_verified"`
	RefreshToken       *string    `json:"-"`
	ResetCode          *string    `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByIdentifier resolves email or phone number.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetResetCode(ctx context.Context, id string, code string, expiresAt time.Time) error
	ClearResetCode(ctx context.Context, id string) error
	Fetch(ctx context.Context, limit, offset int) ([]User, int64, error)
}

// UpdateProfileInput carries optional profile changes. New skills are
// merged with existing ones; a new resume replaces the stored object.
type UpdateProfileInput struct {
	FullName  *string
	Title     *string
	Education *string
	Phone     *string
	Skills    []string
	Resume    *FileUpload
}

type UserUsecase interface {
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, input *UpdateProfileInput) (*User, error)
	ListUsers(ctx context.Context, page, limit int) ([]User, int64, error)
}
