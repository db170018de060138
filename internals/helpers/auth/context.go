package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by the auth middleware.
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocTenantID = "tenant_id"
	LocUserName = "user_name"
	LocRawToken = "raw_token"
)

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id not found in token")
	}
	return id, nil
}

func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocUserRole).(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// GetTenantIDFromToken fails for superadmin (no tenant) with 403.
func GetTenantIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocTenantID).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "tenant not found in token")
	}
	return id, nil
}

// Actor is the authenticated caller.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

// TenantActor returns the caller with a tenant; used on every tenant route.
func TenantActor(c *fiber.Ctx) (Actor, error) {
	uid, err := GetUserIDFromToken(c)
	if err != nil {
		return Actor{}, err
	}
	tid, err := GetTenantIDFromToken(c)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: uid, TenantID: tid, Role: GetRole(c)}, nil
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// ParseUUIDQuery returns nil when the query param is absent.
func ParseUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return &id, nil
}
