// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	TokenBlacklistModel "eduquest_backend/internals/features/users/auth/model"
	helper "eduquest_backend/internals/helpers"
)

type Options struct {
	Secret string
	Now    func() time.Time
}

func AuthMiddleware(db *gorm.DB, opts Options) fiber.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return func(c *fiber.Ctx) error {
		// 1) Authorization header (or cookie)
		tokenString, err := ExtractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		// 2) Blacklist (logout)
		var existing TokenBlacklistModel.TokenBlacklist
		if err := db.Where("token = ?", tokenString).First(&existing).Error; err == nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			configs.Log.Error("[ERROR] blacklist lookup", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		// 3) Parse & verify signature
		if opts.Secret == "" {
			configs.Log.Error("[ERROR] JWT_SECRET is empty")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(opts.Secret), nil
		}); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 4) exp
		if err := validateTokenExpiry(claims, 30*time.Second, opts.Now()); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 5) user aktif
		userID, err := extractUserID(claims)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		u, err := loadActiveUser(db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			if errors.Is(err, errUserInactive) {
				return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		storeClaimsToLocals(c, userID, u, claims, tokenString)
		return c.Next()
	}
}
