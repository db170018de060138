// internals/middlewares/auth/claim_utils.go
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helperAuth "eduquest_backend/internals/helpers/auth"
)

/* ======== Extractors ======== */

// ExtractBearerToken reads "Authorization: Bearer <jwt>" with an access_token cookie fallback.
func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - No token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration, now time.Time) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type")
	}

	if now.After(time.Unix(expUnix, 0).Add(skew)) {
		return fmt.Errorf("token expired")
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	s, _ := claims["user_id"].(string)
	if s == "" {
		s, _ = claims["sub"].(string)
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid user_id")
	}
	return id, nil
}

type activeUser struct {
	Role          string
	TenantID      *uuid.UUID
	IsActive      bool
	EmailVerified bool
}

var errUserInactive = errors.New("user inactive")

// loadActiveUser re-reads role and tenant from the DB; the token is not trusted for them.
func loadActiveUser(db *gorm.DB, userID uuid.UUID) (activeUser, error) {
	var u activeUser
	err := db.Table("users").
		Select("role, tenant_id, is_active, email_verified").
		Where("id = ?", userID).
		Take(&u).Error
	if err != nil {
		return u, err
	}
	if !u.IsActive {
		return u, errUserInactive
	}
	return u, nil
}

func storeClaimsToLocals(c *fiber.Ctx, userID uuid.UUID, u activeUser, claims jwt.MapClaims, raw string) {
	c.Locals(helperAuth.LocUserID, userID.String())
	c.Locals(helperAuth.LocUserRole, strings.ToLower(u.Role))
	if u.TenantID != nil {
		c.Locals(helperAuth.LocTenantID, u.TenantID.String())
	}
	if name, ok := claims["user_name"].(string); ok {
		c.Locals(helperAuth.LocUserName, name)
	}
	c.Locals(helperAuth.LocRawToken, raw)
}
