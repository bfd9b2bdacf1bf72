package auth

import (
	"testing"
	"time"

	"github.com/edulane/course-be/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-secret", time.Hour)

	user := &domain.User{
		ID:    "u-123",
		Email: "facilitator@example.com",
		Role:  domain.RoleFacilitator,
	}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-123", claims.UserID)
	assert.Equal(t, "facilitator@example.com", claims.Email)
	assert.Equal(t, domain.RoleFacilitator, claims.Role)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-signing-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("different-secret", time.Hour)
		token, err := other.Issue(&domain.User{ID: "u-1", Role: domain.RoleManager})
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := NewTokenIssuer("test-signing-secret", time.Nanosecond)
		token, err := short.Issue(&domain.User{ID: "u-1", Role: domain.RoleManager})
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = NewTokenIssuer("test-signing-secret", time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
