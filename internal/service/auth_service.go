package service

import (
	"fmt"
	"time"

	"bayanihan/config"
	"bayanihan/internal/auth"
	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       "active",
		Roles:        []models.UserRole{{Role: domain.RoleMember}},
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(email, password, ip string) (*TokenPair, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return s.issueTokens(u, ip)
}

func (s *AuthService) issueTokens(u *models.User, ip string) (*TokenPair, error) {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Role)
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, roles)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	record := &models.RefreshToken{
		UserID:      u.ID,
		TokenHash:   auth.HashToken(refresh),
		ExpiresAt:   time.Now().Add(s.cfg.JWT.RefreshExpiry),
		CreatedByIP: ip,
	}
	if err := s.userRepo.CreateRefreshToken(record); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a new
// one issued in its place.
func (s *AuthService) Refresh(refreshToken, ip string) (*TokenPair, error) {
	hash := auth.HashToken(refreshToken)
	current, err := s.userRepo.GetRefreshToken(hash)
	if err != nil {
		return nil, err
	}
	if current == nil || current.RevokedAt != nil || current.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	}
	u, err := s.userRepo.GetByID(current.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	}
	if err := s.userRepo.RevokeRefreshToken(hash); err != nil {
		return nil, err
	}
	return s.issueTokens(u, ip)
}

func (s *AuthService) Logout(refreshToken string) error {
	return s.userRepo.RevokeRefreshToken(auth.HashToken(refreshToken))
}

// ReissueDevToken signs a fresh access token for an existing user without
// credentials. Admin-only; intended for support tooling.
func (s *AuthService) ReissueDevToken(userID uint, expiry time.Duration) (string, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Role)
	}
	cfg := s.cfg.JWT
	if expiry > 0 {
		cfg.AccessExpiry = expiry
	}
	return auth.GenerateAccessToken(&cfg, u.ID, u.Email, roles)
}
