package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	"github.com/clinicdesk/scheduling-api/internal/token"
	"github.com/clinicdesk/scheduling-api/pkg/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const bcryptCost = 12

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	revoked  token.RevocationStore
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, revoked token.RevocationStore) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		revoked:  revoked,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Logout revokes the token id until its natural expiry.
func (s *Service) Logout(ctx context.Context, tokenStr string) error {
	claims, err := s.jwtSvc.ValidateToken(tokenStr)
	if err != nil {
		return err
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}

// ValidateToken checks signature, expiry and revocation.
func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

// CreateUser registers an operator account with a bcrypt password hash.
func (s *Service) CreateUser(ctx context.Context, name, email, password string, role model.UserRole) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
