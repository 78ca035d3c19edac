package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"elanis/database/repository"
	providerRepo "elanis/database/repository/provider"
	userRepo "elanis/database/repository/user"
	"elanis/models"
	"elanis/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Service handles registration, login and token revocation. The provider
// status claim is stamped into the token at login time only, so an approval
// or suspension takes effect on the next login.
type Service interface {
	Register(in models.RegisterInput) (*models.AuthResponse, error)
	Login(in models.LoginInput) (*models.AuthResponse, error)
	Logout(token string) error
	IsRevoked(token string) bool
}

// DefaultAuthService implements Service.
type DefaultAuthService struct {
	UserRepo     userRepo.UserRepository
	ProviderRepo providerRepo.ProviderProfileRepository
	AuthCache    *redis.Client
	Logger       *zap.Logger
}

// Register creates a user account and logs it in.
func (s *DefaultAuthService) Register(in models.RegisterInput) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error("failed to hash password", zap.Error(err))
		return nil, utils.ServerError("could not register")
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.BadRequest("an account with this email already exists")
		}
		s.Logger.Error("failed to create user", zap.Error(err))
		return nil, utils.ServerError("could not register")
	}

	s.Logger.Info("user registered", zap.String("userId", user.ID))
	return s.issue(user)
}

// Login authenticates by email and password.
func (s *DefaultAuthService) Login(in models.LoginInput) (*models.AuthResponse, error) {
	user, err := s.UserRepo.GetByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.Unauthorized("invalid email or password")
	}
	if err != nil {
		s.Logger.Error("failed to load user", zap.Error(err))
		return nil, utils.ServerError("could not log in")
	}
	if user.IsDeleted {
		return nil, utils.Unauthorized("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, utils.Unauthorized("invalid email or password")
	}
	return s.issue(user)
}

func (s *DefaultAuthService) issue(user *models.User) (*models.AuthResponse, error) {
	providerStatus := ""
	if user.Role == models.RoleProvider {
		if profile, err := s.ProviderRepo.GetByUserID(user.ID); err == nil {
			providerStatus = string(profile.Status)
		}
	}
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, providerStatus, tokenTTL)
	if err != nil {
		s.Logger.Error("failed to sign token", zap.Error(err))
		return nil, utils.ServerError("could not issue token")
	}
	return &models.AuthResponse{Token: token, User: *user, ProviderStatus: providerStatus}, nil
}

// Logout puts the token's hash on the revocation list until it would have
// expired anyway.
func (s *DefaultAuthService) Logout(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.AuthCache.Set(ctx, utils.HashToken(token), "revoked", tokenTTL).Err(); err != nil {
		s.Logger.Error("failed to revoke token", zap.Error(err))
		return utils.ServerError("could not log out")
	}
	return nil
}

// IsRevoked reports whether the token has been logged out. Cache errors fail
// open; the signature check still stands.
func (s *DefaultAuthService) IsRevoked(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := s.AuthCache.Exists(ctx, utils.HashToken(token)).Result()
	if err != nil {
		s.Logger.Warn("revocation check failed", zap.Error(err))
		return false
	}
	return n > 0
}
