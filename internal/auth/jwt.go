package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/config"
	"fintrack/internal/core"
)

// TokenService issues and verifies signed bearer tokens carrying the user id.
type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
	}
}

// GenerateToken signs a token for the given user, valid for the configured
// lifetime.
func (s *TokenService) GenerateToken(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.expiresIn).Unix(),
	})
	return token.SignedString(s.secretKey)
}

// VerifyToken parses a token and returns the user id it was issued for.
// Any failure, including expiry or a wrong signing method, maps to
// core.ErrUnauthorized.
func (s *TokenService) VerifyToken(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, core.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, core.ErrUnauthorized
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, core.ErrUnauthorized
	}
	userID := int64(userIDFloat)
	if userID <= 0 {
		return 0, core.ErrUnauthorized
	}
	return userID, nil
}
