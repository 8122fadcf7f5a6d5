package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/auth"
	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenService
	publisher events.EventPublisher
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, tokens *auth.TokenService, publisher events.EventPublisher) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		tokens:    tokens,
		publisher: publisher,
	}
}

// Signup registers a new account. Every self-registered account starts as a
// learner; roles are elevated later by an administrator.
func (s *authService) Signup(ctx context.Context, req *validator.SignupRequest) (*models.User, *TokenPair, error) {
	if errs := s.validator.ValidateSignup(req); errs.HasErrors() {
		return nil, nil, errs
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.RoleLearner,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, nil, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.publisher.Publish(ctx, events.UserRegistered, map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	}); err != nil {
		s.logger.Warn("Failed to publish registration event", "user_id", user.ID, "error", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email and
// wrong password produce the same error so the endpoint cannot be used to
// enumerate accounts.
func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*models.User, *TokenPair, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user by email: %w", err)
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, nil, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair issued in the same transaction. A revoked or unknown token is rejected,
// which also catches replay of an already-rotated token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Decode(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var pair *TokenPair
	err = s.withTransaction(ctx, func(tx *gorm.DB) error {
		stored, err := s.repo.RefreshToken().GetByJTI(ctx, tx, claims.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrInvalidToken
			}
			return fmt.Errorf("get refresh token: %w", err)
		}

		now := time.Now()
		if stored.Revoked(now) {
			s.logger.Warn("Revoked refresh token presented", "user_id", stored.UserID, "jti", claims.ID)
			return ErrInvalidToken
		}

		if err := s.repo.RefreshToken().Revoke(ctx, tx, claims.ID, now); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrInvalidToken
			}
			return fmt.Errorf("revoke refresh token: %w", err)
		}

		pair, err = s.issueTokenPair(ctx, tx, claims.Subject)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes the presented refresh token. Revoking an already-revoked or
// unknown token is rejected the same way as any other invalid token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Decode(refreshToken, auth.TokenRefresh)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.repo.RefreshToken().Revoke(ctx, nil, claims.ID, time.Now()); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInvalidToken
		}
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.Info("User logged out", "user_id", claims.Subject)
	return nil
}

// Authenticate resolves an access token to its user.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Decode(accessToken, auth.TokenAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User().GetByID(ctx, nil, claims.Subject)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// withTransaction wraps fn in a DB transaction. Without a DB handle the steps
// run directly against the repository, non-atomically.
func (s *authService) withTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *authService) issueTokenPair(ctx context.Context, tx *gorm.DB, userID string) (*TokenPair, error) {
	access, _, err := s.tokens.Issue(userID, auth.TokenAccess, 0)
	if err != nil {
		return nil, err
	}

	refresh, refreshClaims, err := s.tokens.Issue(userID, auth.TokenRefresh, 0)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		JTI:       refreshClaims.ID,
		UserID:    userID,
		ExpiresAt: refreshClaims.ExpiresAt.Time,
	}
	if err := s.repo.RefreshToken().Create(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}
