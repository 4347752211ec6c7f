package token_test

import (
	"testing"
	"time"

	"go-jobboard-backend/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	mgr := token.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	access, err := mgr.IssueAccessToken("acc-1", "a@x.com", "seeker")
	require.NoError(t, err)

	claims, err := mgr.Parse(access)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "seeker", claims.Actor)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	mgr := token.NewManager("secret-a", time.Minute, time.Hour)
	other := token.NewManager("secret-b", time.Minute, time.Hour)

	tok, err := mgr.IssueAccessToken("acc-1", "a@x.com", "seeker")
	require.NoError(t, err)

	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	mgr := token.NewManager("test-secret", time.Minute, time.Hour)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	mgr.WithClock(func() time.Time { return now })

	tok, err := mgr.IssueAccessToken("acc-1", "a@x.com", "seeker")
	require.NoError(t, err)

	now = start.Add(2 * time.Minute)
	_, err = mgr.Parse(tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
