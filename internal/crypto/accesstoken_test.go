package crypto

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	signer := NewTokenSigner("APIkey", "secret-secret-secret")

	token, err := signer.Issue(context.Background(), AccessGrant{Room: "demo", Identity: "alice", TTL: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "APIkey", claims.Issuer)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "alice", claims.Name)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.Video)
	assert.Equal(t, "demo", claims.Video.Room)
	assert.True(t, claims.Video.RoomJoin)
	assert.True(t, claims.Video.CanPublish)
	assert.True(t, claims.Video.CanSubscribe)
	assert.True(t, claims.Video.CanPublishData)

	lifetime := claims.ExpiresAt.Sub(claims.NotBefore.Time)
	assert.Equal(t, time.Hour, lifetime)
}

func TestIssueDefaultTTL(t *testing.T) {
	signer := NewTokenSigner("k", "s")

	token, err := signer.Issue(context.Background(), AccessGrant{Room: "demo", Identity: "bob"})
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, claims.ExpiresAt.Sub(claims.NotBefore.Time))
}

func TestTokensAreUnique(t *testing.T) {
	signer := NewTokenSigner("k", "s")
	grant := AccessGrant{Room: "demo", Identity: "alice"}

	t1, err := signer.Issue(context.Background(), grant)
	require.NoError(t, err)
	t2, err := signer.Issue(context.Background(), grant)
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

func TestIssueNotConfigured(t *testing.T) {
	_, err := NewTokenSigner("", "secret").Issue(context.Background(), AccessGrant{Room: "r", Identity: "i"})
	assert.ErrorIs(t, err, ErrSignerNotConfigured)

	_, err = NewTokenSigner("key", "").Issue(context.Background(), AccessGrant{Room: "r", Identity: "i"})
	assert.ErrorIs(t, err, ErrSignerNotConfigured)
}

func TestIssueRejectsEmptyGrant(t *testing.T) {
	_, err := NewTokenSigner("k", "s").Issue(context.Background(), AccessGrant{Room: "demo"})
	assert.ErrorIs(t, err, ErrInvalidGrant)
}

func TestIssueCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTokenSigner("k", "s").Issue(ctx, AccessGrant{Room: "demo", Identity: "alice"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenSigner("k", "right").Issue(context.Background(), AccessGrant{Room: "demo", Identity: "alice"})
	require.NoError(t, err)

	_, err = NewTokenSigner("k", "wrong").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongIssuer(t *testing.T) {
	token, err := NewTokenSigner("k1", "s").Issue(context.Background(), AccessGrant{Room: "demo", Identity: "alice"})
	require.NoError(t, err)

	_, err = NewTokenSigner("k2", "s").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	signer := NewTokenSigner("k", "s")
	signer.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }

	token, err := signer.Issue(context.Background(), AccessGrant{Room: "demo", Identity: "alice", TTL: time.Hour})
	require.NoError(t, err)

	signer.now = time.Now
	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmpty(t *testing.T) {
	_, err := NewTokenSigner("k", "s").Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
