package seeds

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"eduquest_backend/internals/constants"
	authService "eduquest_backend/internals/features/users/auth/service"
	userModel "eduquest_backend/internals/features/users/user/model"
)

type SuperadminInput struct {
	Name     string
	Email    string
	Password string
}

// CreateSuperadmin inserts the platform owner account. An existing account
// with the same email is returned untouched with created=false.
func CreateSuperadmin(ctx context.Context, db *gorm.DB, in SuperadminInput) (*userModel.UserModel, bool, error) {
	address := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(address); err != nil {
		return nil, false, errors.New("invalid email")
	}
	if len(in.Password) < 8 {
		return nil, false, errors.New("password must be at least 8 characters")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Super Admin"
	}

	var existing userModel.UserModel
	err := db.WithContext(ctx).Where("email = ?", address).First(&existing).Error
	if err == nil {
		if existing.Role != constants.RoleSuperadmin {
			return nil, false, errors.New("email already belongs to a " + existing.Role)
		}
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hash, err := authService.HashPassword(in.Password)
	if err != nil {
		return nil, false, err
	}
	u := userModel.UserModel{
		FullName:      name,
		Email:         address,
		Password:      hash,
		Role:          constants.RoleSuperadmin,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, false, err
	}
	return &u, true, nil
}
