package otp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// CodeLength is the fixed width of every issued code. Codes are numeric
// strings with leading zeros preserved.
const CodeLength = 6

const codeSpace = 1000000 // 10^CodeLength

// DefaultTTL is how long a code stays valid after issue.
const DefaultTTL = 60 * time.Second

// Issuer generates one-time numeric codes with an expiry. It performs no
// delivery; callers send the code through their own channel.
type Issuer struct {
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		ttl: ttl,
		now: time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (i *Issuer) WithClock(clock func() time.Time) {
	if clock != nil {
		i.now = clock
	}
}

// TTL returns the configured code lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a uniformly random fixed-width code and its expiry instant.
func (i *Issuer) Issue() (string, time.Time, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, i.now().Add(i.ttl), nil
}

// GenerateCode draws a uniformly random numeric code from crypto/rand.
// Rejection sampling keeps the distribution unbiased across the code space.
func GenerateCode() (string, error) {
	// Largest multiple of codeSpace below 2^32; values at or above it are
	// rejected to avoid modulo bias.
	const limit = (1 << 32) / codeSpace * codeSpace

	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("otp: entropy source failed: %w", err)
		}
		v := binary.BigEndian.Uint32(buf[:])
		if v < limit {
			return fmt.Sprintf("%0*d", CodeLength, v%codeSpace), nil
		}
	}
}
