package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/pkg/jwt"
)

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

// NewUserService creates the service instance.
// Dependencies injected via constructor.
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register creates a new account and returns user + token
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	// Handler validates too, but double-checking is cheap
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUSINESS RULE: duplicate email beats duplicate username.
	// The email check runs first so a request colliding on both
	// fields reports the email conflict.
	emailExists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if emailExists {
		return nil, user.ErrEmailAlreadyExists
	}

	usernameExists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if usernameExists {
		return nil, user.ErrUsernameAlreadyExists
	}

	// 3. HASH PASSWORD
	// bcrypt cost 12 balances security and latency
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. CREATE USER ENTITY
	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. PERSIST
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	// 6. MINT TOKEN so the caller is logged in right away
	token, err := s.jwtManager.GenerateToken(newUser.ID.String(), newUser.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &user.AuthResponse{
		User:  newUser.ToDTO(),
		Token: token,
	}, nil
}

// Login verifies credentials and returns user + token
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. FIND USER BY EMAIL
	// Never expose "email not found" - the caller learns only
	// that the email/password pair failed.
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// 3. VERIFY PASSWORD (constant-time comparison)
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// 4. MINT TOKEN
	token, err := s.jwtManager.GenerateToken(u.ID.String(), u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &user.AuthResponse{
		User:  u.ToDTO(),
		Token: token,
	}, nil
}

// ========================================
// PROFILE
// ========================================

// GetProfile returns the acting user's profile
func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

// UpdateProfile updates bio/avatar. Posts and comments created before
// the update keep their author snapshot unchanged.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. GET CURRENT USER
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3. UPDATE FIELDS (only those that were sent)
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	u.UpdatedAt = time.Now()

	// 4. PERSIST CHANGES
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	dto := u.ToDTO()
	return &dto, nil
}
