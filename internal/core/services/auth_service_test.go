package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("s3cret", time.Hour)

	token, err := svc.IssueAdminToken("ops@fanvote")
	require.NoError(t, err)

	admin, err := svc.VerifyAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@fanvote", admin.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), admin.ExpiresAt, 5*time.Second)
}

func TestVerifyAdminTokenRejects(t *testing.T) {
	svc := NewAuthService("s3cret", time.Hour)

	sign := func(secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", sign("other", jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin", "exp": future})},
		{"wrong role", sign("s3cret", jwt.SigningMethodHS256, jwt.MapClaims{"role": "fan", "exp": future})},
		{"expired", sign("s3cret", jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"other algorithm", sign("s3cret", jwt.SigningMethodHS512, jwt.MapClaims{"role": "admin", "exp": future})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAdminToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestAuthServiceWithoutSecret(t *testing.T) {
	svc := NewAuthService("", time.Hour)

	_, err := svc.IssueAdminToken("ops")
	assert.Error(t, err)

	_, err = svc.VerifyAdminToken("anything")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
