package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialdesk/pkg/apperror"
	"socialdesk/pkg/jwt"
	"socialdesk/pkg/logger"
	"socialdesk/services/auth/internal/entity"
	"socialdesk/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, email, name, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	hashCost   int
	logger     *logger.Logger
}

func NewAuthUseCase(userRepo persistent.UserRepository, jwtService *jwt.Service, hashCost int, logger *logger.Logger) AuthUseCase {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		hashCost:   hashCost,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a client account. Admin and reseller users are provisioned by seed.
func (uc *authUseCase) Register(ctx context.Context, email, name, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, "", apperror.Validation("Email and name are required")
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", apperror.Conflict("User with this email already exists")
	} else if !errors.Is(err, persistent.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
		Role:     entity.RoleClient,
		IsActive: true,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, persistent.ErrDuplicate) {
			return nil, "", apperror.Conflict("User with this email already exists")
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	uc.logger.Info("Registered user %s", user.ID)
	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, "", apperror.Unauthenticated("Invalid credentials")
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperror.Unauthenticated("Invalid credentials")
	}

	if !user.IsActive {
		return nil, "", apperror.Forbidden("Account is deactivated")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	user.Password = ""
	return user, nil
}
