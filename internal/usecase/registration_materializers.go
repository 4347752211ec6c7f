package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/google/uuid"
)

// Account materialization is the only piece of the registration workflow
// that differs between actor types, so each actor contributes a strategy
// instead of duplicating the whole flow.

type seekerMaterializer struct {
	users domain.UserRepository
}

func NewSeekerMaterializer(users domain.UserRepository) domain.AccountMaterializer {
	return &seekerMaterializer{users: users}
}

func (m *seekerMaterializer) CreateFromPending(ctx context.Context, pending *domain.PendingRegistration) (*domain.VerifiedAccountRef, error) {
	p := pending.Payload
	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     p.FullName,
		Email:        pending.Identifier,
		Skills:       p.Skills,
		Resume:       p.Resume,
		PasswordHash: p.PasswordHash,
		IsVerified:   true,
	}
	if p.Phone != "" {
		user.Phone = &p.Phone
	}
	if p.Education != "" {
		user.Education = &p.Education
	}
	if !domain.IsEmail(pending.Identifier) {
		// Phone registration: the identifier is the phone number
		user.Email = ""
		user.Phone = &pending.Identifier
	}

	if err := m.users.Create(ctx, user); err != nil {
		// The identifier uniqueness constraint makes promotion idempotent:
		// a concurrent or retried verify finds the account already created
		// and returns it instead of failing.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindConflict {
			existing, getErr := m.users.GetByIdentifier(ctx, pending.Identifier)
			if getErr != nil {
				return nil, apperror.Storage(getErr)
			}
			return &domain.VerifiedAccountRef{ID: existing.ID, Identifier: pending.Identifier, ActorType: domain.ActorSeeker}, nil
		}
		return nil, err
	}

	return &domain.VerifiedAccountRef{ID: user.ID, Identifier: pending.Identifier, ActorType: domain.ActorSeeker}, nil
}

func (m *seekerMaterializer) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	_, err := m.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type companyMaterializer struct {
	companies domain.CompanyRepository
}

func NewCompanyMaterializer(companies domain.CompanyRepository) domain.AccountMaterializer {
	return &companyMaterializer{companies: companies}
}

func (m *companyMaterializer) CreateFromPending(ctx context.Context, pending *domain.PendingRegistration) (*domain.VerifiedAccountRef, error) {
	p := pending.Payload
	company := &domain.Company{
		ID:           uuid.NewString(),
		CompanyName:  p.CompanyName,
		Email:        pending.Identifier,
		Avatar:       p.Avatar,
		PasswordHash: p.PasswordHash,
		IsVerified:   true,
	}

	if err := m.companies.Create(ctx, company); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindConflict {
			existing, getErr := m.companies.GetByIdentifier(ctx, pending.Identifier)
			if getErr != nil {
				return nil, apperror.Storage(getErr)
			}
			return &domain.VerifiedAccountRef{ID: existing.ID, Identifier: pending.Identifier, ActorType: domain.ActorCompany}, nil
		}
		return nil, err
	}

	return &domain.VerifiedAccountRef{ID: company.ID, Identifier: pending.Identifier, ActorType: domain.ActorCompany}, nil
}

func (m *companyMaterializer) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	_, err := m.companies.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
