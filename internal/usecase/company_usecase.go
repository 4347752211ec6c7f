package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/storage"
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	docStore    domain.DocumentStore
}

func NewCompanyUsecase(companyRepo domain.CompanyRepository, docStore domain.DocumentStore) domain.CompanyUsecase {
	return &companyUsecase{companyRepo: companyRepo, docStore: docStore}
}

func (u *companyUsecase) GetProfile(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := u.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found")
		}
		return nil, apperror.Storage(err)
	}
	return company, nil
}

func (u *companyUsecase) UpdateProfile(ctx context.Context, companyID string, input *domain.UpdateCompanyInput) (*domain.Company, error) {
	ctxID, ok := ctx.Value(domain.KeyAccountID).(string)
	if !ok || ctxID == "" {
		return nil, apperror.Unauthorized("Company not authenticated")
	}
	companyID = ctxID

	company, err := u.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found")
		}
		return nil, apperror.Storage(err)
	}

	if input.CompanyName != nil && strings.TrimSpace(*input.CompanyName) != "" {
		company.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.About != nil {
		company.About = input.About
	}
	if input.NoOfEmployees != nil && *input.NoOfEmployees >= 0 {
		company.NoOfEmployees = *input.NoOfEmployees
	}

	if input.Avatar != nil {
		// Avatars are normalized (downscaled, re-encoded) before upload
		normalized, err := storage.NormalizeAvatar(input.Avatar.Data)
		if err != nil {
			return nil, apperror.Validation("Avatar must be a valid JPEG or PNG image")
		}
		doc, err := u.docStore.Upload(ctx, "avatars", &domain.FileUpload{
			Data:        normalized,
			Ext:         ".jpg",
			ContentType: "image/jpeg",
		})
		if err != nil {
			return nil, apperror.Storage(err)
		}
		oldKey := ""
		if company.Avatar != nil {
			oldKey = company.Avatar.Key
		}
		company.Avatar = doc
		if oldKey != "" {
			if err := u.docStore.Delete(ctx, oldKey); err != nil {
				logger.Log.Warn("failed to delete replaced avatar", "key", oldKey, "error", err)
			}
		}
	}

	company.UpdatedAt = time.Now()
	if err := u.companyRepo.Update(ctx, company); err != nil {
		return nil, apperror.Storage(err)
	}
	return company, nil
}

func (u *companyUsecase) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("Company name is required")
	}
	company, err := u.companyRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found")
		}
		return nil, apperror.Storage(err)
	}
	return company, nil
}

func (u *companyUsecase) ListCompanies(ctx context.Context, page, limit int) ([]domain.Company, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	return u.companyRepo.Fetch(ctx, limit, offset)
}
