// Package service implements the application's use cases on top of the
// storage layer. Handlers stay thin; ownership checks and cross-entity
// validation live here.
package service

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type AuthService struct {
	repo   *storage.SQLiteRepository
	tokens *auth.TokenService
	cfg    *config.Config
}

func NewAuthService(repo *storage.SQLiteRepository, tokens *auth.TokenService, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cfg: cfg}
}

// Register creates a user with the configured default currency and returns
// the user together with a fresh token.
func (s *AuthService) Register(ctx context.Context, username, password string) (core.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.User{}, "", fmt.Errorf("username: %w", core.ErrEmptyName)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, "", err
	}

	user, err := s.repo.CreateUser(ctx, username, hash, s.cfg.DefaultCurrency)
	if err != nil {
		return core.User{}, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token. A
// missing user and a wrong password are both reported as ErrUnauthorized so
// the response does not reveal which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (core.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return core.User{}, "", core.ErrUnauthorized
	}
	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return core.User{}, "", core.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (core.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateDefaultCurrency changes the user's display currency. The code must
// be one of the configured available currencies.
func (s *AuthService) UpdateDefaultCurrency(ctx context.Context, userID int64, currency string) (core.User, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !core.ValidCurrency(currency) || !s.cfg.CurrencyAllowed(currency) {
		return core.User{}, fmt.Errorf("%w: %q", core.ErrInvalidCurrency, currency)
	}
	if err := s.repo.UpdateUserCurrency(ctx, userID, currency); err != nil {
		return core.User{}, err
	}
	return s.repo.GetUserByID(ctx, userID)
}
