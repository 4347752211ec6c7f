package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// ActorType partitions registrations and accounts. A single identifier can
// belong to at most one actor type at a time.
type ActorType string

const (
	ActorSeeker  ActorType = "seeker"
	ActorCompany ActorType = "company"
)

func (a ActorType) Valid() bool {
	return a == ActorSeeker || a == ActorCompany
}

// Document references an uploaded object (resume, avatar) in media storage.
type Document struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// FileUpload carries raw multipart file content into the intake flow.
type FileUpload struct {
	Data        []byte
	Ext         string
	ContentType string
}

// RegistrationPayload is the credential material needed to materialize the
// permanent account once the identifier is verified. The password is stored
// hashed from intake onward.
type RegistrationPayload struct {
	PasswordHash string    `json:"password_hash"`
	FullName     string    `json:"full_name,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Education    string    `json:"education,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	Resume       *Document `json:"resume,omitempty"`
	Avatar       *Document `json:"avatar,omitempty"`
}

// PendingRegistration is an unverified registration attempt. At most one
// exists per (actor type, identifier) at any time.
type PendingRegistration struct {
	ID            int64               `json:"id"`
	ActorType     ActorType           `json:"actor_type"`
	Identifier    string              `json:"identifier"`
	Payload       RegistrationPayload `json:"-"`
	Code          string              `json:"-"`
	CodeExpiresAt time.Time           `json:"code_expires_at"`
	ResendCount   int                 `json:"resend_count"`
	LastResendAt  time.Time           `json:"last_resend_at"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CodeExpired reports whether the current code is invalid at instant now.
// A code is invalid at or after its expiry.
func (p *PendingRegistration) CodeExpired(now time.Time) bool {
	return !now.Before(p.CodeExpiresAt)
}

// IsEmail reports whether an identifier is an email address rather than a
// phone number, which selects the delivery channel.
func IsEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}

type RegistrationOutcome string

const (
	// OutcomeCreated means a new pending registration was stored.
	OutcomeCreated RegistrationOutcome = "created"
	// OutcomeReissued means an expired pending registration for the same
	// identifier was refreshed in place with a new code.
	OutcomeReissued RegistrationOutcome = "reissued"
)

type RegistrationResult struct {
	Outcome   RegistrationOutcome `json:"outcome"`
	ExpiresAt time.Time           `json:"expires_at"`
}

type ResendResult struct {
	ExpiresAt   time.Time `json:"expires_at"`
	ResendCount int       `json:"resend_count"`
	// NextAllowedResendDelay is the throttle window that will apply to the
	// following resend attempt, for client display.
	NextAllowedResendDelay time.Duration `json:"-"`
}

// VerifiedAccountRef identifies the permanent account created by a
// successful verification.
type VerifiedAccountRef struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	ActorType  ActorType `json:"actor_type"`
}

// RegisterInput is the raw intake payload. Actor-specific fields are
// validated per actor type by the usecase.
type RegisterInput struct {
	Identifier      string
	Password        string
	ConfirmPassword string
	FullName        string
	CompanyName     string
	Phone           string
	Education       string
	Skills          []string
	Resume          *FileUpload
	Avatar          *FileUpload
}

type PendingRegistrationRepository interface {
	Create(ctx context.Context, pending *PendingRegistration) error
	GetByIdentifier(ctx context.Context, actor ActorType, identifier string) (*PendingRegistration, error)
	// UpdateCode persists new code state conditionally on the code the
	// caller read, so a resend and a verify racing on the same record
	// cannot interleave. Returns ErrNotFound when the condition fails.
	UpdateCode(ctx context.Context, pending *PendingRegistration, expectedCode string) error
	Delete(ctx context.Context, actor ActorType, identifier string) error
	// DeleteExpired reclaims records whose code expired before the given
	// instant. Run by the background sweep, never from the request path.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AccountMaterializer creates the permanent account for one actor type from
// a verified pending registration. CreateFromPending must be idempotent
// under races: when the identifier already has an account it returns that
// account's reference with no error.
type AccountMaterializer interface {
	CreateFromPending(ctx context.Context, pending *PendingRegistration) (*VerifiedAccountRef, error)
	IdentifierExists(ctx context.Context, identifier string) (bool, error)
}

// CodeSender delivers a one-time code to its target over one medium.
type CodeSender interface {
	Deliver(ctx context.Context, target, code string) error
}

// DocumentStore uploads and deletes media objects (resumes, avatars).
type DocumentStore interface {
	Upload(ctx context.Context, folder string, file *FileUpload) (*Document, error)
	Delete(ctx context.Context, key string) error
}

type RegistrationUsecase interface {
	Register(ctx context.Context, actor ActorType, input *RegisterInput) (*RegistrationResult, error)
	Verify(ctx context.Context, actor ActorType, identifier, code string) (*VerifiedAccountRef, error)
	Resend(ctx context.Context, actor ActorType, identifier string) (*ResendResult, error)
}
