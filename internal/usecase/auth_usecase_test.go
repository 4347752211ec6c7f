package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/otp"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	uc          domain.AuthUsecase
	userRepo    *fakeUserRepo
	companyRepo *fakeCompanyRepo
	emailSender *fakeSender
	seekerMgr   *token.Manager
	companyMgr  *token.Manager
	clock       *fakeClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		userRepo:    newFakeUserRepo(),
		companyRepo: newFakeCompanyRepo(),
		emailSender: &fakeSender{},
		seekerMgr:   token.NewManager("seeker-secret", 15*time.Minute, 7*24*time.Hour),
		companyMgr:  token.NewManager("company-secret", 15*time.Minute, 7*24*time.Hour),
		clock:       &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.uc = usecase.NewAuthUsecase(f.userRepo, f.companyRepo, f.seekerMgr, f.companyMgr,
		otp.NewIssuer(10*time.Minute), f.emailSender)
	f.uc.(interface{ WithClock(func() time.Time) }).WithClock(f.clock.Now)
	f.seekerMgr.WithClock(f.clock.Now)
	f.companyMgr.WithClock(f.clock.Now)
	return f
}

func (f *authFixture) seedSeeker(t *testing.T, email, password string, verified bool) *domain.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	user := &domain.User{
		ID:           "user-" + email,
		FullName:     "Jane Candidate",
		Email:        email,
		PasswordHash: hash,
		IsVerified:   verified,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func (f *authFixture) seedCompany(t *testing.T, email, password string) *domain.Company {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	company := &domain.Company{
		ID:           "company-" + email,
		CompanyName:  "Acme Corp",
		Email:        email,
		PasswordHash: hash,
		IsVerified:   true,
	}
	require.NoError(t, f.companyRepo.Create(context.Background(), company))
	return company
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("seeker login issues a valid token pair and stores the refresh token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		user, pair, err := f.uc.LoginSeeker(ctx, "Jane@Example.com", "Str0ng!pass")
		require.NoError(t, err)
		require.NotNil(t, pair)
		assert.Equal(t, "jane@example.com", user.Email)

		claims, err := f.seekerMgr.Parse(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.AccountID)
		assert.Equal(t, string(domain.ActorSeeker), claims.Actor)

		stored, err := f.userRepo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.RefreshToken)
		assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)
	})

	t.Run("seeker tokens do not parse with the company secret", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		_, pair, err := f.uc.LoginSeeker(ctx, "jane@example.com", "Str0ng!pass")
		require.NoError(t, err)

		_, err = f.companyMgr.Parse(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("wrong password and unknown account yield the same error", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		_, _, err1 := f.uc.LoginSeeker(ctx, "jane@example.com", "wrong-password")
		appErr1 := requireKind(t, err1, apperror.KindUnauthorized)

		_, _, err2 := f.uc.LoginSeeker(ctx, "nobody@example.com", "Str0ng!pass")
		appErr2 := requireKind(t, err2, apperror.KindUnauthorized)

		assert.Equal(t, appErr1.Message, appErr2.Message)
	})

	t.Run("unverified seeker cannot log in", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", false)

		_, _, err := f.uc.LoginSeeker(ctx, "jane@example.com", "Str0ng!pass")
		requireKind(t, err, apperror.KindUnauthorized)
	})

	t.Run("company login and logout", func(t *testing.T) {
		f := newAuthFixture(t)
		company := f.seedCompany(t, "hr@acme.com", "Str0ng!pass")

		_, pair, err := f.uc.LoginCompany(ctx, "hr@acme.com", "Str0ng!pass")
		require.NoError(t, err)

		claims, err := f.companyMgr.Parse(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, string(domain.ActorCompany), claims.Actor)

		require.NoError(t, f.uc.LogoutCompany(ctx, company.ID))
		stored, err := f.companyRepo.GetByID(ctx, company.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.RefreshToken)
	})

	t.Run("access token expires", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		_, pair, err := f.uc.LoginSeeker(ctx, "jane@example.com", "Str0ng!pass")
		require.NoError(t, err)

		f.clock.Advance(16 * time.Minute)
		_, err = f.seekerMgr.Parse(pair.AccessToken)
		assert.Error(t, err)
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("request stores a code and emails it", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		require.NoError(t, f.uc.RequestPasswordReset(ctx, "jane@example.com"))
		assert.Equal(t, 1, f.emailSender.count())

		stored, err := f.userRepo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ResetCode)
		assert.Equal(t, f.emailSender.last().Code, *stored.ResetCode)
	})

	t.Run("request for unknown email is silent", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.NoError(t, f.uc.RequestPasswordReset(ctx, "nobody@example.com"))
		assert.Equal(t, 0, f.emailSender.count())
	})

	t.Run("full reset flow", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "OldStr0ng!pass", true)

		require.NoError(t, f.uc.RequestPasswordReset(ctx, "jane@example.com"))
		code := f.emailSender.last().Code

		require.NoError(t, f.uc.VerifyPasswordReset(ctx, "jane@example.com", code))
		require.NoError(t, f.uc.UpdatePassword(ctx, "jane@example.com", code, "NewStr0ng!pass", "NewStr0ng!pass"))

		// Old password is out, new one works.
		_, _, err := f.uc.LoginSeeker(ctx, "jane@example.com", "OldStr0ng!pass")
		requireKind(t, err, apperror.KindUnauthorized)
		_, _, err = f.uc.LoginSeeker(ctx, "jane@example.com", "NewStr0ng!pass")
		assert.NoError(t, err)

		// The reset session is consumed.
		err = f.uc.UpdatePassword(ctx, "jane@example.com", code, "Third1!pass", "Third1!pass")
		requireKind(t, err, apperror.KindExpired)
	})

	t.Run("update without presenting the code is refused", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "OldStr0ng!pass", true)

		require.NoError(t, f.uc.RequestPasswordReset(ctx, "jane@example.com"))
		code := f.emailSender.last().Code

		// A live code exists on the account, but the caller never saw it.
		err := f.uc.UpdatePassword(ctx, "jane@example.com", "", "Hijack1!pass", "Hijack1!pass")
		requireKind(t, err, apperror.KindValidation)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		err = f.uc.UpdatePassword(ctx, "jane@example.com", wrong, "Hijack1!pass", "Hijack1!pass")
		requireKind(t, err, apperror.KindInvalidCode)

		// The original password still logs in.
		_, _, err = f.uc.LoginSeeker(ctx, "jane@example.com", "OldStr0ng!pass")
		assert.NoError(t, err)
	})

	t.Run("expired reset code is rejected as expired", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		require.NoError(t, f.uc.RequestPasswordReset(ctx, "jane@example.com"))
		code := f.emailSender.last().Code

		f.clock.Advance(10 * time.Minute)
		err := f.uc.VerifyPasswordReset(ctx, "jane@example.com", code)
		requireKind(t, err, apperror.KindExpired)
	})

	t.Run("wrong reset code", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		require.NoError(t, f.uc.RequestPasswordReset(ctx, "jane@example.com"))
		code := f.emailSender.last().Code
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		err := f.uc.VerifyPasswordReset(ctx, "jane@example.com", wrong)
		requireKind(t, err, apperror.KindInvalidCode)
	})

	t.Run("update without a live reset session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedSeeker(t, "jane@example.com", "Str0ng!pass", true)

		err := f.uc.UpdatePassword(ctx, "jane@example.com", "123456", "NewStr0ng!pass", "NewStr0ng!pass")
		requireKind(t, err, apperror.KindExpired)
	})
}
