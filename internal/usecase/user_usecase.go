package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

type userUsecase struct {
	userRepo domain.UserRepository
	docStore domain.DocumentStore
}

func NewUserUsecase(userRepo domain.UserRepository, docStore domain.DocumentStore) domain.UserUsecase {
	return &userUsecase{userRepo: userRepo, docStore: docStore}
}

func (u *userUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	// Security: a seeker may only view their own profile
	ctxID, ok := ctx.Value(domain.KeyAccountID).(string)
	if !ok || ctxID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxID != userID {
		return nil, apperror.Forbidden("You can only view your own profile")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Storage(err)
	}
	return user, nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID string, input *domain.UpdateProfileInput) (*domain.User, error) {
	ctxID, ok := ctx.Value(domain.KeyAccountID).(string)
	if !ok || ctxID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	// Force the target from the authenticated context
	userID = ctxID

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Storage(err)
	}

	if input.FullName != nil && strings.TrimSpace(*input.FullName) != "" {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Title != nil {
		user.Title = input.Title
	}
	if input.Education != nil {
		user.Education = input.Education
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if len(input.Skills) > 0 {
		user.Skills = mergeSkills(user.Skills, input.Skills)
	}

	if input.Resume != nil {
		doc, err := u.docStore.Upload(ctx, "resumes", input.Resume)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		oldKey := ""
		if user.Resume != nil {
			oldKey = user.Resume.Key
		}
		user.Resume = doc
		// The replaced object is deleted best-effort after the new one is
		// in place, so a failed upload never loses the previous resume.
		if oldKey != "" {
			if err := u.docStore.Delete(ctx, oldKey); err != nil {
				logger.Log.Warn("failed to delete replaced resume", "key", oldKey, "error", err)
			}
		}
	}

	user.UpdatedAt = time.Now()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Storage(err)
	}
	return user, nil
}

func (u *userUsecase) ListUsers(ctx context.Context, page, limit int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	return u.userRepo.Fetch(ctx, limit, offset)
}

func mergeSkills(existing, added []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range append(existing, added...) {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}
