package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/auth"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
	"github.com/yigit/coursedesk/internal/pkg/metrics"
	"github.com/yigit/coursedesk/internal/pkg/validation"
)

// ErrBadLogin hides whether the email or the password was wrong
var ErrBadLogin = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "invalid email or password")

// AuthService handles admin authentication
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates an admin
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := validation.NormalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			s.logger.Warn().Str("email", email).Msg("Login attempt for unknown account")
			return nil, ErrBadLogin
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		s.logger.Warn().Str("userId", user.ID).Msg("Login attempt with wrong password")
		return nil, ErrBadLogin
	}

	now := helpers.NowUTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error().Err(err).Str("userId", user.ID).Msg("Failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.generateTokenResponse(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("userId", user.ID).Msg("Admin logged in")
	return &dto.AuthResponse{Token: *token, User: user}, nil
}

// RefreshToken issues a new token pair for a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return s.generateTokenResponse(user)
}

// GetProfile returns the authenticated admin
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) generateTokenResponse(user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userId", user.ID).Msg("Failed to generate tokens")
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshTokenExpiresIn,
	}, nil
}
