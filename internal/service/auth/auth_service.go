package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"evote-api/internal/domain"
	"evote-api/internal/service"
	"evote-api/pkg/errors"
	"evote-api/pkg/logger"
)

// tokenTTL bounds how long a session token stays usable. A voter only needs
// it between verification and casting; an admin for one working session.
const tokenTTL = time.Hour

// Claims are the session claims carried in the token.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service implements the AuthService interface with HS256 session tokens.
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(secret string, logger *logger.Logger) service.AuthService {
	return &Service{
		secret: []byte(secret),
		logger: logger,
	}
}

// IssueToken creates a signed session token for the user.
func (s *Service) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign session token")
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	}).Debug("Session token issued")
	return signed, nil
}

// ValidateToken verifies a session token and returns the user it carries.
func (s *Service) ValidateToken(_ context.Context, tokenString string) (*domain.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("Session token rejected")
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}
	if !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}
	if claims.Role != domain.RoleAdmin && claims.Role != domain.RoleVoter {
		return nil, errors.NewAuthenticationError("Token carries an unknown role")
	}

	return &domain.User{Email: claims.Email, Role: claims.Role}, nil
}
