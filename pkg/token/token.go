package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by both access and refresh tokens. Actor distinguishes
// seeker tokens from company tokens so one cannot be replayed as the other.
type Claims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email,omitempty"`
	Actor     string `json:"actor"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256-signed JWT pairs for one actor type.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (m *Manager) WithClock(clock func() time.Time) {
	if clock != nil {
		m.now = clock
	}
}

func (m *Manager) IssueAccessToken(accountID, email, actor string) (string, error) {
	return m.sign(accountID, email, actor, m.accessTTL)
}

// IssueRefreshToken issues a long-lived token carrying only the account
// identity. The caller persists it on the account row so logout can revoke it.
func (m *Manager) IssueRefreshToken(accountID, actor string) (string, error) {
	return m.sign(accountID, "", actor, m.refreshTTL)
}

func (m *Manager) sign(accountID, email, actor string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		AccountID: accountID,
		Email:     email,
		Actor:     actor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates the signature and expiry and returns the claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
