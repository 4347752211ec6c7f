package usecase_test

import (
	"context"
	"testing"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedCtx(accountID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyAccountID, accountID)
}

func TestUserProfile(t *testing.T) {
	newFixture := func(t *testing.T) (domain.UserUsecase, *fakeUserRepo, *fakeDocStore) {
		t.Helper()
		repo := newFakeUserRepo()
		store := &fakeDocStore{}
		require.NoError(t, repo.Create(context.Background(), &domain.User{
			ID:         "user-1",
			FullName:   "Jane Candidate",
			Email:      "jane@example.com",
			Skills:     []string{"Go"},
			Resume:     &domain.Document{Key: "resumes/old.pdf", URL: "https://cdn.example.com/resumes/old.pdf"},
			IsVerified: true,
		}))
		return usecase.NewUserUsecase(repo, store), repo, store
	}

	t.Run("a seeker may only view their own profile", func(t *testing.T) {
		uc, _, _ := newFixture(t)

		_, err := uc.GetProfile(authedCtx("user-1"), "user-1")
		assert.NoError(t, err)

		_, err = uc.GetProfile(authedCtx("user-2"), "user-1")
		requireKind(t, err, apperror.KindForbidden)

		_, err = uc.GetProfile(context.Background(), "user-1")
		requireKind(t, err, apperror.KindUnauthorized)
	})

	t.Run("new skills merge with existing ones without duplicates", func(t *testing.T) {
		uc, _, _ := newFixture(t)

		user, err := uc.UpdateProfile(authedCtx("user-1"), "user-1", &domain.UpdateProfileInput{
			Skills: []string{"go", "SQL", " SQL "},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Go", "SQL"}, user.Skills)
	})

	t.Run("a new resume replaces and deletes the old object", func(t *testing.T) {
		uc, repo, store := newFixture(t)

		user, err := uc.UpdateProfile(authedCtx("user-1"), "user-1", &domain.UpdateProfileInput{
			Resume: &domain.FileUpload{Data: []byte("pdf"), Ext: ".pdf", ContentType: "application/pdf"},
		})
		require.NoError(t, err)
		require.NotNil(t, user.Resume)
		assert.NotEqual(t, "resumes/old.pdf", user.Resume.Key)
		assert.Equal(t, []string{"resumes/old.pdf"}, store.deleted)

		stored, err := repo.GetByID(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, user.Resume.Key, stored.Resume.Key)
	})

	t.Run("update target is forced from the authenticated context", func(t *testing.T) {
		uc, repo, _ := newFixture(t)
		require.NoError(t, repo.Create(context.Background(), &domain.User{
			ID: "user-2", FullName: "Other", Email: "other@example.com", IsVerified: true,
		}))

		name := "Impostor"
		user, err := uc.UpdateProfile(authedCtx("user-2"), "user-1", &domain.UpdateProfileInput{FullName: &name})
		require.NoError(t, err)
		assert.Equal(t, "user-2", user.ID)

		victim, err := repo.GetByID(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Jane Candidate", victim.FullName)
	})
}

func TestCompanyProfile(t *testing.T) {
	newFixture := func(t *testing.T) (domain.CompanyUsecase, *fakeCompanyRepo, *fakeDocStore) {
		t.Helper()
		repo := newFakeCompanyRepo()
		store := &fakeDocStore{}
		require.NoError(t, repo.Create(context.Background(), &domain.Company{
			ID:          "company-1",
			CompanyName: "Acme Corp",
			Email:       "hr@acme.com",
			IsVerified:  true,
		}))
		return usecase.NewCompanyUsecase(repo, store), repo, store
	}

	t.Run("updates profile fields in place", func(t *testing.T) {
		uc, repo, _ := newFixture(t)

		about := "We make everything."
		n := 250
		company, err := uc.UpdateProfile(authedCtx("company-1"), "company-1", &domain.UpdateCompanyInput{
			About:         &about,
			NoOfEmployees: &n,
		})
		require.NoError(t, err)
		require.NotNil(t, company.About)
		assert.Equal(t, about, *company.About)
		assert.Equal(t, 250, company.NoOfEmployees)

		stored, err := repo.GetByID(context.Background(), "company-1")
		require.NoError(t, err)
		assert.Equal(t, 250, stored.NoOfEmployees)
	})

	t.Run("rejects an avatar that is not a decodable image", func(t *testing.T) {
		uc, _, _ := newFixture(t)

		_, err := uc.UpdateProfile(authedCtx("company-1"), "company-1", &domain.UpdateCompanyInput{
			Avatar: &domain.FileUpload{Data: []byte("not an image"), Ext: ".png", ContentType: "image/png"},
		})
		requireKind(t, err, apperror.KindValidation)
	})

	t.Run("lookup by name", func(t *testing.T) {
		uc, _, _ := newFixture(t)

		company, err := uc.GetByName(context.Background(), "Acme Corp")
		require.NoError(t, err)
		assert.Equal(t, "company-1", company.ID)

		_, err = uc.GetByName(context.Background(), "Nonexistent")
		requireKind(t, err, apperror.KindNotFound)

		_, err = uc.GetByName(context.Background(), "   ")
		requireKind(t, err, apperror.KindValidation)
	})
}
