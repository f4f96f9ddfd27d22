package services

import (
	"errors"
	"fmt"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/repositories"
	"github.com/daliaibrahim58/greenmart/pkg/auth"
	"gorm.io/gorm"
)

// TokenPair is what a successful login or registration returns.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a user account with a bcrypt-hashed password. New accounts
// always get the "user" role; admins are promoted through the back office.
func (s *AuthService) Register(userName, email, password string) (models.User, TokenPair, error) {
	if _, err := s.users.FindByUserName(userName); err == nil {
		return models.User{}, TokenPair{}, ErrUserExists
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, TokenPair{}, ErrUserExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		UserName: userName,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issueTokens(user)
	return user, pair, err
}

// Login authenticates by user name (or email) and password.
func (s *AuthService) Login(login, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByUserName(login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.users.FindByEmail(login)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	return user, pair, err
}

// Profile returns the account behind an identity.
func (s *AuthService) Profile(identity Identity) (models.User, error) {
	if !identity.Authenticated() {
		return models.User{}, ErrNotAuthenticated
	}
	return s.users.FindByID(identity.UserID)
}

func (s *AuthService) issueTokens(user models.User) (TokenPair, error) {
	token, err := auth.GenerateToken(user.ID, user.UserName, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.UserName, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{Token: token, RefreshToken: refresh}, nil
}
