// Package auth issues and validates JWT session tokens. It is the auth
// collaborator supplying the stable user identifier that keys both the local
// cache and the remote document.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service signs and validates bearer tokens with an HMAC secret.
type Service struct {
	secret []byte
	expiry time.Duration
	logger *common.Logger
}

// NewService creates the auth service from config.
func NewService(config *common.Config, logger *common.Logger) *Service {
	return &Service{
		secret: []byte(config.Auth.JWTSecret),
		expiry: config.Auth.GetTokenExpiry(),
		logger: logger,
	}
}

// SignIn issues a session token for userID.
func (s *Service) SignIn(_ context.Context, userID string) (*interfaces.SessionToken, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := jwt.MapClaims{
		"sub": userID,
		"jti": uuid.New().String(),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Str("user", userID).Time("expires", expiresAt).Msg("Session token issued")

	return &interfaces.SessionToken{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate checks a bearer token and returns the user identifier it carries.
func (s *Service) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// Compile-time check
var _ interfaces.AuthService = (*Service)(nil)
