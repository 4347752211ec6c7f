package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/otp"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/token"
)

type authUsecase struct {
	userRepo      domain.UserRepository
	companyRepo   domain.CompanyRepository
	seekerTokens  *token.Manager
	companyTokens *token.Manager
	issuer        *otp.Issuer
	emailSender   domain.CodeSender
	now           func() time.Time
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	companyRepo domain.CompanyRepository,
	seekerTokens *token.Manager,
	companyTokens *token.Manager,
	issuer *otp.Issuer,
	emailSender domain.CodeSender,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		companyRepo:   companyRepo,
		seekerTokens:  seekerTokens,
		companyTokens: companyTokens,
		issuer:        issuer,
		emailSender:   emailSender,
		now:           time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (u *authUsecase) WithClock(clock func() time.Time) {
	if clock != nil {
		u.now = clock
		u.issuer.WithClock(clock)
	}
}

func (u *authUsecase) LoginSeeker(ctx context.Context, identifier, password string) (*domain.User, *domain.TokenPair, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, nil, apperror.Validation("Identifier and password are required")
	}

	user, err := u.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, nil, apperror.Storage(err)
	}

	if !security.ComparePassword(password, user.PasswordHash) {
		return nil, nil, apperror.Unauthorized("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, nil, apperror.Unauthorized("Account is not verified")
	}

	pair, err := u.issuePair(u.seekerTokens, user.ID, user.Email, string(domain.ActorSeeker))
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if err := u.userRepo.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, nil, apperror.Storage(err)
	}

	return user, pair, nil
}

func (u *authUsecase) LoginCompany(ctx context.Context, email, password string) (*domain.Company, *domain.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, apperror.Validation("Email and password are required")
	}

	company, err := u.companyRepo.GetByIdentifier(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, nil, apperror.Storage(err)
	}

	if !security.ComparePassword(password, company.PasswordHash) {
		return nil, nil, apperror.Unauthorized("Invalid credentials")
	}
	if !company.IsVerified {
		return nil, nil, apperror.Unauthorized("Company is not verified")
	}

	pair, err := u.issuePair(u.companyTokens, company.ID, company.Email, string(domain.ActorCompany))
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if err := u.companyRepo.UpdateRefreshToken(ctx, company.ID, &pair.RefreshToken); err != nil {
		return nil, nil, apperror.Storage(err)
	}

	return company, pair, nil
}

func (u *authUsecase) LogoutSeeker(ctx context.Context, userID string) error {
	return u.userRepo.UpdateRefreshToken(ctx, userID, nil)
}

func (u *authUsecase) LogoutCompany(ctx context.Context, companyID string) error {
	return u.companyRepo.UpdateRefreshToken(ctx, companyID, nil)
}

// RequestPasswordReset issues a reset code to a verified seeker. The
// response is identical whether or not the account exists so the endpoint
// cannot be used to probe registered emails.
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperror.Validation("Email is required")
	}

	user, err := u.userRepo.GetByIdentifier(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return apperror.Storage(err)
	}

	code, expiresAt, err := u.issuer.Issue()
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.userRepo.SetResetCode(ctx, user.ID, code, expiresAt); err != nil {
		return apperror.Storage(err)
	}
	if err := u.emailSender.Deliver(ctx, email, code); err != nil {
		return apperror.Delivery(err)
	}
	return nil
}

func (u *authUsecase) VerifyPasswordReset(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return apperror.Validation("Email and code are required")
	}

	user, err := u.userRepo.GetByIdentifier(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Storage(err)
	}

	if user.ResetCode == nil || user.ResetCodeExpiresAt == nil {
		return apperror.NotFound("No reset request for this account")
	}
	if !u.now().Before(*user.ResetCodeExpiresAt) {
		return apperror.Expired("Reset code has expired")
	}
	if subtle.ConstantTimeCompare([]byte(*user.ResetCode), []byte(code)) != 1 {
		return apperror.InvalidCode("Invalid reset code")
	}
	return nil
}

func (u *authUsecase) UpdatePassword(ctx context.Context, email, code, password, confirmPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" || password == "" || confirmPassword == "" {
		return apperror.Validation("All fields are required")
	}
	if ok, msg := security.ValidatePassword(password); !ok {
		return apperror.Validation(msg)
	}
	if password != confirmPassword {
		return apperror.Validation("Passwords do not match")
	}

	user, err := u.userRepo.GetByIdentifier(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Storage(err)
	}

	// The caller must present the live reset code here as well; update is
	// the final step of the reset flow, not a standalone operation.
	if user.ResetCode == nil || user.ResetCodeExpiresAt == nil || !u.now().Before(*user.ResetCodeExpiresAt) {
		return apperror.Expired("Reset session has expired. Please request a new code.")
	}
	if subtle.ConstantTimeCompare([]byte(*user.ResetCode), []byte(code)) != 1 {
		return apperror.InvalidCode("Invalid reset code")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperror.Storage(err)
	}
	if err := u.userRepo.ClearResetCode(ctx, user.ID); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

func (u *authUsecase) issuePair(mgr *token.Manager, accountID, email, actor string) (*domain.TokenPair, error) {
	access, err := mgr.IssueAccessToken(accountID, email, actor)
	if err != nil {
		return nil, err
	}
	refresh, err := mgr.IssueRefreshToken(accountID, actor)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
