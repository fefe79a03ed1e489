package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/security"
)

type authService struct {
	profileRepo  repository.ProfileRepository
	tokenManager security.TokenManager
}

func NewAuthService(profileRepo repository.ProfileRepository, tokenManager security.TokenManager) AuthService {
	return &authService{
		profileRepo:  profileRepo,
		tokenManager: tokenManager,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, fullName string) (*domain.Profile, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", "", fmt.Errorf("invalid email address")
	}
	if len(password) < 8 {
		return nil, "", "", fmt.Errorf("password must be at least 8 characters")
	}

	existing, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", "", err
	}
	if existing != nil {
		return nil, "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &domain.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         domain.ProfileRoleCustomer,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokenPair(profile)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("User signed up", "user_id", profile.ID, "email", email)
	return profile, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Profile, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokenPair(profile)
	if err != nil {
		return nil, "", "", err
	}
	return profile, access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// profile is re-read so a role change takes effect on rotation.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokenManager.ValidateToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", ErrInvalidCredentials
	}

	profile, err := s.profileRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	return s.issueTokenPair(profile)
}

func (s *authService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *authService) issueTokenPair(profile *domain.Profile) (string, string, error) {
	access, err := s.tokenManager.GenerateAccessToken(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokenManager.GenerateRefreshToken(profile.ID, profile.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return access, refresh, nil
}
