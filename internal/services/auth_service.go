package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"github.com/ArowuTest/church-calendar-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *jwt.TokenService
	cost     int
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(userRepo repositories.UserRepository, tokens *jwt.TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		cost:     bcrypt.DefaultCost,
	}
}

// Register creates an account and signs the new user in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.respond(user)
}

// Login checks the password and issues a token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(user)
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	// Don't return password hash
	out := *user
	out.Password = ""
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: &out}, nil
}
