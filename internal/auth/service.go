package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/verenigingen/membership-api/internal/shared/logger"
	"github.com/verenigingen/membership-api/internal/shared/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db              *gorm.DB
	staffRepository *StaffRepository
	tokenManager    token.Manager
}

func NewAuthService(db *gorm.DB, staffRepository *StaffRepository, tokenManager token.Manager) *AuthService {
	return &AuthService{
		db:              db,
		staffRepository: staffRepository,
		tokenManager:    tokenManager,
	}
}

func (a *AuthService) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)

	// 1. Find staff account by email
	staff, err := a.staffRepository.FindByEmail(ctx, a.db, request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("login failed - staff email not found", "email", logger.MaskEmail(request.Email))
			return nil, fmt.Errorf("error %w", ErrIncorrectEmailPassword) // Security: don't reveal if email exists
		}
		log.Error("login failed - unexpected error", "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	// 2. Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(request.Password)); err != nil {
		log.Warn("login failed - invalid password", "email", logger.MaskEmail(request.Email))
		return nil, fmt.Errorf("error %w", ErrIncorrectEmailPassword)
	}

	// 3. Generate JWT tokens
	staffID := strconv.FormatUint(uint64(staff.ID), 10)
	accessToken, err := a.tokenManager.GenerateAccessToken(staffID, staff.Email, staff.Role)
	if err != nil {
		log.Error("access token generation failed", "error", err)
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := a.tokenManager.GenerateRefreshToken(staffID, staff.Email, staff.Role)
	if err != nil {
		log.Error("refresh token generation failed", "error", err)
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	log.Info("login succeeded", "email", logger.MaskEmail(request.Email), "role", staff.Role)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         staff.Role,
	}, nil
}
