package routes_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	"eduquest_backend/internals/constants"
	tenantModel "eduquest_backend/internals/features/accounts/tenants/model"
	authService "eduquest_backend/internals/features/users/auth/service"
	userModel "eduquest_backend/internals/features/users/user/model"
	helper "eduquest_backend/internals/helpers"
	routes "eduquest_backend/internals/route"
	"eduquest_backend/internals/services/email"
	"eduquest_backend/internals/services/gateway"
	"eduquest_backend/internals/testkit"
)

const secret = "secret"

func newApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testkit.NewDB(t)
	cfg := &configs.AppConfig{
		Env:             "test",
		JWTSecret:       secret,
		JWTTTL:          time.Hour,
		OTPTTL:          5 * time.Minute,
		DefaultCurrency: "INR",
	}
	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	routes.SetupRoutes(app, routes.Deps{
		DB:      db,
		Cfg:     cfg,
		Mail:    email.Notifier{Sender: &email.MemorySender{}, Log: zap.NewNop(), AppName: "EduQuest"},
		Gateway: gateway.NewFake("server-key"),
		Now:     time.Now,
	})
	return app, db
}

func bearer(t *testing.T, u userModel.UserModel) string {
	t.Helper()
	tok, _, err := authService.NewTokenService(secret, time.Hour, time.Now).Issue(u)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, app *fiber.App, method, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)
	assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/health", ""))
}

func TestTenantRoutesNeedToken(t *testing.T) {
	app, _ := newApp(t)
	for _, p := range []string{"/api/a/classes", "/api/t/classes", "/api/st/attendance", "/api/s/tenants", "/api/u/me"} {
		assert.Equal(t, fiber.StatusUnauthorized, do(t, app, fiber.MethodGet, p, ""), p)
	}
}

func TestSubscriptionGate(t *testing.T) {
	app, db := newApp(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	admin := testkit.User(t, db, &tenant.TenantID, constants.RoleAdmin, "Admin")
	tok := bearer(t, admin)

	assert.Equal(t, fiber.StatusForbidden, do(t, app, fiber.MethodGet, "/api/a/classes", tok))
	assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/a/subscriptions/status", tok))

	plan := testkit.Plan(t, db, "999", 1, 0)
	testkit.ActiveSubscription(t, db, tenant.TenantID, plan, time.Now())
	assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/a/classes", tok))
}

func TestRoleScoping(t *testing.T) {
	app, db := newApp(t)
	tenant := testkit.Tenant(t, db, tenantModel.TenantStatusActive)
	testkit.ActiveSubscription(t, db, tenant.TenantID, testkit.Plan(t, db, "999", 1, 0), time.Now())
	student := testkit.User(t, db, &tenant.TenantID, constants.RoleStudent, "Student")
	tok := bearer(t, student)

	assert.Equal(t, fiber.StatusForbidden, do(t, app, fiber.MethodGet, "/api/a/classes", tok))
	assert.Equal(t, fiber.StatusForbidden, do(t, app, fiber.MethodGet, "/api/s/tenants", tok))

	super := testkit.User(t, db, nil, constants.RoleSuperadmin, "Root")
	assert.Equal(t, fiber.StatusOK, do(t, app, fiber.MethodGet, "/api/s/dashboard", bearer(t, super)))
}

func TestAuthPrefixIsNotAdminScoped(t *testing.T) {
	app, _ := newApp(t)
	req := httptest.NewRequest(fiber.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"whatever1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
