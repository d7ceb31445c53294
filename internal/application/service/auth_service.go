package service

import (
	"context"
	"strings"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/utils"
	"go.uber.org/zap"
)

// AuthService handles signup, signin and token refresh for receipt owners
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// SignupInput represents the signup input
type SignupInput struct {
	Name     string
	Username string
	Password string
}

// SigninInput represents the signin input
type SigninInput struct {
	Username string
	Password string
}

// AuthOutput is returned by signin and refresh
type AuthOutput struct {
	User   *entity.User
	Tokens *utils.TokenPair
}

// Signup creates a new user account
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already registered")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("failed to create user", zap.String("username", username), zap.Error(err))
		return nil, apperror.NewPersistenceError(err)
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Signin checks the credentials and issues a token pair
func (s *AuthService) Signin(ctx context.Context, input *SigninInput) (*AuthOutput, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthOutput, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{User: user, Tokens: tokens}, nil
}
