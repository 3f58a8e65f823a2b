package services

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
)

// AuthService verifies bearer tokens and extracts the caller identity.
// Tokens are issued by the identity provider in front of this API; this
// service only validates the shared-secret signature and reads claims.
type AuthService interface {
	ParseToken(token string) (*requestdata.RequestData, error)
}

type authService struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthService(secret string, baseLog *logger.Logger) (AuthService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("missing JWT secret")
	}
	return &authService{
		log:    baseLog.With("service", "AuthService"),
		secret: []byte(secret),
	}, nil
}

func (s *authService) ParseToken(token string) (*requestdata.RequestData, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	// Some issuers omit sub; email is the stable fallback identity.
	if sub == "" {
		sub = email
	}
	if sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	return &requestdata.RequestData{
		UserID:    sub,
		UserName:  name,
		UserEmail: email,
	}, nil
}
