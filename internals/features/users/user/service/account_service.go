package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authRepo "eduquest_backend/internals/features/users/auth/repository"
	authService "eduquest_backend/internals/features/users/auth/service"
	"eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/email"
)

const initialPasswordLength = 10

type NewAccount struct {
	TenantID uuid.UUID
	FullName string
	Email    string
	Phone    *string
	Role     string
}

// CreateAccount inserts a verified login with a random password inside tx.
// The plain password is returned once so the caller can mail it after commit.
func CreateAccount(ctx context.Context, tx *gorm.DB, in NewAccount) (*model.UserModel, string, error) {
	addr := authRepo.NormalizeEmail(in.Email)
	taken, err := authRepo.EmailTaken(ctx, tx, addr)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", helper.FieldError("email", "email is already registered")
	}

	plain := helper.RandomPassword(initialPasswordLength)
	hashed, err := authService.HashPassword(plain)
	if err != nil {
		return nil, "", err
	}
	tenantID := in.TenantID
	u := &model.UserModel{
		FullName:      strings.TrimSpace(in.FullName),
		Email:         addr,
		Password:      hashed,
		Phone:         in.Phone,
		Role:          in.Role,
		TenantID:      &tenantID,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, "", helper.FieldError("email", "email is already registered")
		}
		return nil, "", err
	}
	return u, plain, nil
}

// SendCredentials mails the initial password; best effort.
func SendCredentials(ctx context.Context, n email.Notifier, u *model.UserModel, password string) bool {
	return n.Credentials(ctx, u.Role, u.FullName, u.Email, password)
}

// UpdateAccount applies name/phone/is_active changes to a tenant user.
func UpdateAccount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fullName, phone *string, isActive *bool) error {
	m := map[string]any{}
	if fullName != nil {
		m["full_name"] = strings.TrimSpace(*fullName)
	}
	if phone != nil {
		m["phone"] = phone
	}
	if isActive != nil {
		m["is_active"] = *isActive
	}
	if len(m) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", userID).Updates(m).Error
}
