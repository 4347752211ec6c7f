package domain

import "context"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUsecase interface {
	// LoginSeeker authenticates by email or phone number.
	LoginSeeker(ctx context.Context, identifier, password string) (*User, *TokenPair, error)
	LoginCompany(ctx context.Context, email, password string) (*Company, *TokenPair, error)
	LogoutSeeker(ctx context.Context, userID string) error
	LogoutCompany(ctx context.Context, companyID string) error
	// Forgot-password flow for verified seekers: request a reset code,
	// prove control of the mailbox, then set the new password.
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyPasswordReset(ctx context.Context, email, code string) error
	// UpdatePassword requires the live reset code; possession of the code
	// is re-proved here so the update cannot be replayed without it.
	UpdatePassword(ctx context.Context, email, code, password, confirmPassword string) error
}
