package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

// In-memory doubles backing the usecase tests. They enforce the same
// uniqueness and conditional-update semantics as the Postgres layer.

type fakePendingRepo struct {
	mu     sync.Mutex
	rows   map[string]*domain.PendingRegistration
	nextID int64
	// failDeletes simulates a crash window between account creation and
	// pending cleanup.
	failDeletes bool
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{rows: map[string]*domain.PendingRegistration{}}
}

func pendingKey(actor domain.ActorType, identifier string) string {
	return string(actor) + ":" + identifier
}

func clonePending(p *domain.PendingRegistration) *domain.PendingRegistration {
	c := *p
	return &c
}

func (f *fakePendingRepo) Create(_ context.Context, pending *domain.PendingRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pendingKey(pending.ActorType, pending.Identifier)
	if _, ok := f.rows[key]; ok {
		return apperror.Conflict("A registration for this identifier is already pending")
	}
	f.nextID++
	pending.ID = f.nextID
	f.rows[key] = clonePending(pending)
	return nil
}

func (f *fakePendingRepo) GetByIdentifier(_ context.Context, actor domain.ActorType, identifier string) (*domain.PendingRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[pendingKey(actor, identifier)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePending(p), nil
}

func (f *fakePendingRepo) UpdateCode(_ context.Context, pending *domain.PendingRegistration, expectedCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pendingKey(pending.ActorType, pending.Identifier)
	stored, ok := f.rows[key]
	if !ok || stored.Code != expectedCode {
		return domain.ErrNotFound
	}
	f.rows[key] = clonePending(pending)
	return nil
}

func (f *fakePendingRepo) Delete(_ context.Context, actor domain.ActorType, identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes {
		return fmt.Errorf("simulated delete failure")
	}
	key := pendingKey(actor, identifier)
	if _, ok := f.rows[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, key)
	return nil
}

func (f *fakePendingRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key, p := range f.rows {
		if p.CodeExpiresAt.Before(before) {
			delete(f.rows, key)
			n++
		}
	}
	return n, nil
}

func (f *fakePendingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if (user.Email != "" && u.Email == user.Email) ||
			(user.Phone != nil && u.Phone != nil && *u.Phone == *user.Phone) {
			return apperror.Conflict("User with this identifier already exists")
		}
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == identifier || (u.Phone != nil && *u.Phone == identifier) {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserRepo) UpdateRefreshToken(_ context.Context, id string, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetResetCode(_ context.Context, id string, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResetCode = &code
	u.ResetCodeExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ClearResetCode(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.ResetCode = nil
	u.ResetCodeExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) Fetch(_ context.Context, limit, offset int) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []domain.User
	for _, u := range f.users {
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*domain.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: map[string]*domain.Company{}}
}

func (f *fakeCompanyRepo) Create(_ context.Context, company *domain.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.companies {
		if c.Email == company.Email {
			return apperror.Conflict("Company with this identifier already exists")
		}
	}
	c := *company
	f.companies[company.ID] = &c
	return nil
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.companies {
		if c.Email == identifier {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCompanyRepo) GetByName(_ context.Context, name string) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.companies {
		if c.CompanyName == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCompanyRepo) Update(_ context.Context, company *domain.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.companies[company.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *company
	f.companies[company.ID] = &c
	return nil
}

func (f *fakeCompanyRepo) UpdateRefreshToken(_ context.Context, id string, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.RefreshToken = token
	return nil
}

func (f *fakeCompanyRepo) Fetch(_ context.Context, limit, offset int) ([]domain.Company, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []domain.Company
	for _, c := range f.companies {
		all = append(all, *c)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// fakeSender records every delivered code and can be told to fail.
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentCode
	failing bool
}

type sentCode struct {
	Target string
	Code   string
}

func (f *fakeSender) Deliver(_ context.Context, target, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return fmt.Errorf("simulated delivery failure")
	}
	f.sent = append(f.sent, sentCode{Target: target, Code: code})
	return nil
}

func (f *fakeSender) last() sentCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentCode{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeDocStore struct {
	mu       sync.Mutex
	uploads  int
	deleted  []string
	failNext bool
}

func (f *fakeDocStore) Upload(_ context.Context, folder string, file *domain.FileUpload) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, apperror.Storage(fmt.Errorf("simulated upload failure"))
	}
	f.uploads++
	key := fmt.Sprintf("%s/object-%d%s", folder, f.uploads, file.Ext)
	return &domain.Document{Key: key, URL: "https://cdn.example.com/" + key}, nil
}

func (f *fakeDocStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}
