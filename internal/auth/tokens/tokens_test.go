package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owusuprince21/cheaprides.backend/internal/auth"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier"
)

func newTestService() *Service {
	return NewService("test-secret", time.Hour, 7*24*time.Hour)
}

func testIdentity() *auth.Identity {
	return &auth.Identity{
		UID:         "firebase-uid-1",
		Email:       "ada@example.com",
		DisplayName: "Ada Lovelace",
	}
}

func TestMintAndParseAccess(t *testing.T) {
	svc := newTestService()

	pair, err := svc.Mint(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	identity, err := svc.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", identity.UID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "Ada Lovelace", identity.DisplayName)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := newTestService()

	pair, err := svc.Mint(testIdentity())
	require.NoError(t, err)

	_, err = svc.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenCannotRefresh(t *testing.T) {
	svc := newTestService()

	pair, err := svc.Mint(testIdentity())
	require.NoError(t, err)

	_, err = svc.Rotate(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRotateIssuesFreshPair(t *testing.T) {
	svc := newTestService()

	pair, err := svc.Mint(testIdentity())
	require.NoError(t, err)

	rotated, err := svc.Rotate(pair.Refresh)
	require.NoError(t, err)

	identity, err := svc.ParseAccess(rotated.Access)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", identity.UID)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	svc := newTestService()

	pair, err := svc.Mint(testIdentity())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	pair, err := newTestService().Mint(testIdentity())
	require.NoError(t, err)

	other := NewService("other-secret", time.Hour, time.Hour)
	_, err = other.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessVerifierCollapsesFailures(t *testing.T) {
	svc := newTestService()
	v := AccessVerifier{Tokens: svc}

	_, err := v.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, verifier.ErrAuthenticationFailed)

	pair, err := svc.Mint(testIdentity())
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email)
}
