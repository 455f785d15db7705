package usecases

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase issues and verifies the HS256 tokens guarding the admin API.
type AuthUsecase struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthUsecase(secret string, ttl time.Duration) *AuthUsecase {
	return &AuthUsecase{
		jwtSecret: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueToken signs an admin token for subject.
func (uc *AuthUsecase) IssueToken(subject string) (string, error) {
	if len(uc.jwtSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := uc.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(uc.ttl)),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses tokenString and returns its subject.
func (uc *AuthUsecase) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return uc.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(uc.now))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
