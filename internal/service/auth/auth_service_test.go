package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evote-api/internal/domain"
	"evote-api/pkg/logger"
)

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	log, err := logger.New("error", "test")
	require.NoError(t, err)
	return NewService(secret, log).(*Service)
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestService(t, "test-secret")

	tests := []struct {
		name string
		user *domain.User
	}{
		{"voter token", &domain.User{Email: "a@b.com", Role: domain.RoleVoter}},
		{"admin token", &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.IssueToken(tt.user)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			got, err := svc.ValidateToken(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, tt.user.Email, got.Email)
			assert.Equal(t, tt.user.Role, got.Role)
		})
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestService(t, "test-secret")

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken(context.Background(), "not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTestService(t, "other-secret")
		token, err := other.IssueToken(&domain.User{Email: "a@b.com", Role: domain.RoleVoter})
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := &Claims{Email: "a@b.com", Role: "SUPERUSER"}
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		token, err := raw.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Email: "a@b.com", Role: domain.RoleVoter})
		token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.Error(t, err)
	})
}
