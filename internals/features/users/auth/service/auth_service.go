package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	"eduquest_backend/internals/constants"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	authHelper "eduquest_backend/internals/features/users/auth/helper"
	authRepo "eduquest_backend/internals/features/users/auth/repository"
	userModel "eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
)

type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenService
}

func NewAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

type LoginResult struct {
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	ExpiresAt   time.Time           `json:"expires_at"`
	User        userModel.UserModel `json:"user"`
}

var errInvalidCredentials = helper.Unauthorized("invalid email or password")

// ========================== LOGIN ==========================
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPasswordHash(user.Password, password); err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, helper.Forbidden("your account has been deactivated")
	}
	if user.Role == constants.RoleAdmin && !user.EmailVerified {
		return nil, helper.Forbidden("email not verified, please verify your email first")
	}

	if user.TenantID != nil {
		var t tenantModel.TenantModel
		if err := s.DB.WithContext(ctx).Select("tenant_id, tenant_status").
			First(&t, "tenant_id = ?", *user.TenantID).Error; err != nil {
			return nil, err
		}
		if t.TenantStatus == tenantModel.TenantStatusSuspended {
			return nil, helper.Forbidden("your institute has been suspended")
		}
	}

	token, exp, err := s.Tokens.Issue(*user)
	if err != nil {
		return nil, err
	}
	now := s.Tokens.Now().UTC()
	if err := authRepo.TouchLastLogin(ctx, s.DB, user.ID, now); err != nil {
		configs.Log.Warn("last_login_at update failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	user.LastLoginAt = &now

	return &LoginResult{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, User: *user}, nil
}

// ========================== LOGOUT ==========================
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return helper.Unauthorized("no token provided")
	}
	return authRepo.BlacklistToken(ctx, s.DB, rawToken, s.Tokens.ExpiryOf(rawToken))
}

// ========================== CHANGE PASSWORD ==========================
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	if err := CheckPasswordHash(user.Password, current); err != nil {
		return helper.FieldError("current_password", "current password is incorrect")
	}
	if current == next {
		return helper.FieldError("new_password", "new password must differ from the current one")
	}
	if err := authHelper.ValidatePasswordStrength(next); err != nil {
		return helper.FieldError("new_password", err.Error())
	}
	hashed, err := HashPassword(next)
	if err != nil {
		return err
	}
	return authRepo.UpdateUserPassword(ctx, s.DB, userID, hashed)
}
