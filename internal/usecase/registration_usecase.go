package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/otp"
	"go-jobboard-backend/pkg/security"
)

// RegistrationConfig tunes the resend throttle. requiredWait grows linearly:
// baseWait + resendCount * backoffStep.
type RegistrationConfig struct {
	ResendBaseWait    time.Duration
	ResendBackoffStep time.Duration
}

func DefaultRegistrationConfig() RegistrationConfig {
	return RegistrationConfig{
		ResendBaseWait:    time.Minute,
		ResendBackoffStep: 5 * time.Minute,
	}
}

type registrationUsecase struct {
	pendingRepo   domain.PendingRegistrationRepository
	materializers map[domain.ActorType]domain.AccountMaterializer
	emailSender   domain.CodeSender
	smsSender     domain.CodeSender
	docStore      domain.DocumentStore
	issuer        *otp.Issuer
	cfg           RegistrationConfig
	now           func() time.Time
	locks         sync.Map // identifier -> *sync.Mutex
}

func NewRegistrationUsecase(
	pendingRepo domain.PendingRegistrationRepository,
	seekerAccounts domain.AccountMaterializer,
	companyAccounts domain.AccountMaterializer,
	emailSender domain.CodeSender,
	smsSender domain.CodeSender,
	docStore domain.DocumentStore,
	issuer *otp.Issuer,
	cfg RegistrationConfig,
) domain.RegistrationUsecase {
	if cfg.ResendBaseWait <= 0 {
		cfg.ResendBaseWait = time.Minute
	}
	if cfg.ResendBackoffStep <= 0 {
		cfg.ResendBackoffStep = 5 * time.Minute
	}
	return &registrationUsecase{
		pendingRepo: pendingRepo,
		materializers: map[domain.ActorType]domain.AccountMaterializer{
			domain.ActorSeeker:  seekerAccounts,
			domain.ActorCompany: companyAccounts,
		},
		emailSender: emailSender,
		smsSender:   smsSender,
		docStore:    docStore,
		issuer:      issuer,
		cfg:         cfg,
		now:         time.Now,
	}
}

// WithClock overrides the internal clock (and the issuer's), used in tests.
func (u *registrationUsecase) WithClock(clock func() time.Time) {
	if clock != nil {
		u.now = clock
		u.issuer.WithClock(clock)
	}
}

// lock serializes all mutations for one identifier across both actor types,
// so racing verify/resend calls cannot interleave and a seeker and a company
// flow for the same identifier cannot both materialize.
func (u *registrationUsecase) lock(identifier string) func() {
	v, _ := u.locks.LoadOrStore(identifier, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (u *registrationUsecase) Register(ctx context.Context, actor domain.ActorType, input *domain.RegisterInput) (*domain.RegistrationResult, error) {
	if !actor.Valid() {
		return nil, apperror.Validation("Unknown actor type")
	}

	identifier := normalizeIdentifier(input.Identifier)

	// 1. Required fields, all missing ones reported together
	if missing := missingFields(actor, identifier, input); len(missing) > 0 {
		return nil, apperror.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}

	// 2. Password policy, every unmet rule reported
	if ok, msg := security.ValidatePassword(input.Password); !ok {
		return nil, apperror.Validation(msg)
	}

	// 3. Confirmation must match
	if input.Password != input.ConfirmPassword {
		return nil, apperror.Validation("Passwords do not match")
	}

	unlock := u.lock(identifier)
	defer unlock()

	// 4. Identifier must not already be verified, for either actor type
	for _, m := range u.materializers {
		exists, err := m.IdentifierExists(ctx, identifier)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		if exists {
			return nil, apperror.Conflict("An account with this identifier is already registered")
		}
	}

	// 5. Live pending registration blocks; an expired one is refreshed in place
	pending, err := u.pendingRepo.GetByIdentifier(ctx, actor, identifier)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Storage(err)
	}
	if pending != nil {
		if !pending.CodeExpired(u.now()) {
			return nil, apperror.Conflict("Verification pending. Please verify the code already sent.")
		}
		return u.reissueExpired(ctx, pending)
	}

	// 6. Fresh intake: upload attachments before anything is persisted
	payload := domain.RegistrationPayload{
		FullName:    strings.TrimSpace(input.FullName),
		CompanyName: strings.TrimSpace(input.CompanyName),
		Phone:       strings.TrimSpace(input.Phone),
		Education:   strings.TrimSpace(input.Education),
		Skills:      normalizeSkills(input.Skills),
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	payload.PasswordHash = hash

	if input.Resume != nil {
		doc, err := u.docStore.Upload(ctx, "resumes", input.Resume)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		payload.Resume = doc
	}
	if input.Avatar != nil {
		doc, err := u.docStore.Upload(ctx, "avatars", input.Avatar)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		payload.Avatar = doc
	}

	code, expiresAt, err := u.issuer.Issue()
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now()
	pending = &domain.PendingRegistration{
		ActorType:     actor,
		Identifier:    identifier,
		Payload:       payload,
		Code:          code,
		CodeExpiresAt: expiresAt,
		ResendCount:   0,
		LastResendAt:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.pendingRepo.Create(ctx, pending); err != nil {
		return nil, err
	}

	// Persist first, deliver second: a delivery failure is recoverable via
	// resend and must not orphan the attempt.
	if err := u.deliverCode(ctx, identifier, code); err != nil {
		return nil, apperror.Delivery(err)
	}

	return &domain.RegistrationResult{Outcome: domain.OutcomeCreated, ExpiresAt: expiresAt}, nil
}

// reissueExpired refreshes an expired pending registration in place. The
// stored payload is kept; the throttle schedule restarts with the attempt.
func (u *registrationUsecase) reissueExpired(ctx context.Context, pending *domain.PendingRegistration) (*domain.RegistrationResult, error) {
	code, expiresAt, err := u.issuer.Issue()
	if err != nil {
		return nil, apperror.Internal(err)
	}

	oldCode := pending.Code
	pending.Code = code
	pending.CodeExpiresAt = expiresAt
	pending.ResendCount = 0
	pending.LastResendAt = u.now()

	if err := u.pendingRepo.UpdateCode(ctx, pending, oldCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Conflict("Registration state changed. Please retry.")
		}
		return nil, apperror.Storage(err)
	}

	if err := u.deliverCode(ctx, pending.Identifier, code); err != nil {
		return nil, apperror.Delivery(err)
	}

	return &domain.RegistrationResult{Outcome: domain.OutcomeReissued, ExpiresAt: expiresAt}, nil
}

func (u *registrationUsecase) Verify(ctx context.Context, actor domain.ActorType, identifier, code string) (*domain.VerifiedAccountRef, error) {
	if !actor.Valid() {
		return nil, apperror.Validation("Unknown actor type")
	}
	identifier = normalizeIdentifier(identifier)
	if identifier == "" || code == "" {
		return nil, apperror.Validation("Identifier and code are required")
	}

	unlock := u.lock(identifier)
	defer unlock()

	pending, err := u.pendingRepo.GetByIdentifier(ctx, actor, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("No pending registration for this identifier")
		}
		return nil, apperror.Storage(err)
	}

	// Expiry is checked before the code comparison: an expired-but-correct
	// code is still rejected as expired.
	if pending.CodeExpired(u.now()) {
		return nil, apperror.Expired("Verification code has expired")
	}

	if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		return nil, apperror.InvalidCode("Invalid verification code")
	}

	// The identifier may have been verified under the other actor type while
	// this registration was pending. Accounts are disjoint across actor
	// types, so that wins and this verification is refused.
	for a, m := range u.materializers {
		if a == actor {
			continue
		}
		exists, err := m.IdentifierExists(ctx, identifier)
		if err != nil {
			return nil, apperror.Storage(err)
		}
		if exists {
			return nil, apperror.Conflict("An account with this identifier is already registered")
		}
	}

	materializer := u.materializers[actor]
	ref, err := materializer.CreateFromPending(ctx, pending)
	if err != nil {
		return nil, err
	}

	// Best-effort cleanup. A crash before this point leaves the pending
	// row behind; the account already exists, so a retried verify finds
	// no usable record and the row is reclaimed lazily.
	if err := u.pendingRepo.Delete(ctx, actor, identifier); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Log.Warn("failed to delete pending registration after verification",
			"actor", string(actor), "identifier", identifier, "error", err)
	}

	return ref, nil
}

func (u *registrationUsecase) Resend(ctx context.Context, actor domain.ActorType, identifier string) (*domain.ResendResult, error) {
	if !actor.Valid() {
		return nil, apperror.Validation("Unknown actor type")
	}
	identifier = normalizeIdentifier(identifier)
	if identifier == "" {
		return nil, apperror.Validation("Identifier is required")
	}

	unlock := u.lock(identifier)
	defer unlock()

	pending, err := u.pendingRepo.GetByIdentifier(ctx, actor, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Already verified or never registered")
		}
		return nil, apperror.Storage(err)
	}

	now := u.now()

	// Gate 1: the standing code must have expired before a new one may be
	// requested.
	if !pending.CodeExpired(now) {
		remaining := pending.CodeExpiresAt.Sub(now)
		return nil, apperror.TooEarly("Current code is still valid. Wait for it to expire before requesting a new one.", remaining)
	}

	// Gate 2: linear backoff since the last (re)issue.
	requiredWait := u.requiredWait(pending.ResendCount)
	if elapsed := now.Sub(pending.LastResendAt); elapsed < requiredWait {
		remaining := requiredWait - elapsed
		return nil, apperror.TooEarly("Please wait before requesting another code.", remaining)
	}

	code, expiresAt, err := u.issuer.Issue()
	if err != nil {
		return nil, apperror.Internal(err)
	}

	oldCode := pending.Code
	pending.Code = code
	pending.CodeExpiresAt = expiresAt
	pending.LastResendAt = now
	pending.ResendCount++

	if err := u.pendingRepo.UpdateCode(ctx, pending, oldCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Conflict("Registration state changed. Please retry.")
		}
		return nil, apperror.Storage(err)
	}

	if err := u.deliverCode(ctx, identifier, code); err != nil {
		return nil, apperror.Delivery(err)
	}

	return &domain.ResendResult{
		ExpiresAt:              expiresAt,
		ResendCount:            pending.ResendCount,
		NextAllowedResendDelay: u.requiredWait(pending.ResendCount),
	}, nil
}

func (u *registrationUsecase) requiredWait(resendCount int) time.Duration {
	return u.cfg.ResendBaseWait + time.Duration(resendCount)*u.cfg.ResendBackoffStep
}

func (u *registrationUsecase) deliverCode(ctx context.Context, identifier, code string) error {
	if domain.IsEmail(identifier) {
		if u.emailSender == nil {
			return errors.New("email delivery not configured")
		}
		return u.emailSender.Deliver(ctx, identifier, code)
	}
	if u.smsSender == nil {
		return errors.New("sms delivery not configured")
	}
	return u.smsSender.Deliver(ctx, identifier, code)
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func normalizeSkills(skills []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

func missingFields(actor domain.ActorType, identifier string, input *domain.RegisterInput) []string {
	var missing []string
	if identifier == "" {
		missing = append(missing, "identifier")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if input.ConfirmPassword == "" {
		missing = append(missing, "confirmPassword")
	}
	switch actor {
	case domain.ActorSeeker:
		if strings.TrimSpace(input.FullName) == "" {
			missing = append(missing, "fullName")
		}
		if input.Resume == nil {
			missing = append(missing, "resume")
		}
	case domain.ActorCompany:
		if strings.TrimSpace(input.CompanyName) == "" {
			missing = append(missing, "companyName")
		}
	}
	return missing
}
