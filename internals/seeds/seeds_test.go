package seeds_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduquest_backend/internals/constants"
	subModel "eduquest_backend/internals/features/subscriptions/model"
	authService "eduquest_backend/internals/features/users/auth/service"
	"eduquest_backend/internals/seeds"
	"eduquest_backend/internals/testkit"
)

func TestCreateSuperadminIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()
	in := seeds.SuperadminInput{Email: " Root@Example.com ", Password: "longenough"}

	u, created, err := seeds.CreateSuperadmin(ctx, db, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@example.com", u.Email)
	assert.Equal(t, "Super Admin", u.FullName)
	assert.Equal(t, constants.RoleSuperadmin, u.Role)
	assert.NoError(t, authService.CheckPasswordHash(u.Password, "longenough"))

	again, created, err := seeds.CreateSuperadmin(ctx, db, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
}

func TestCreateSuperadminRejects(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	_, _, err := seeds.CreateSuperadmin(ctx, db, seeds.SuperadminInput{Email: "nope", Password: "longenough"})
	assert.Error(t, err)
	_, _, err = seeds.CreateSuperadmin(ctx, db, seeds.SuperadminInput{Email: "a@example.com", Password: "short"})
	assert.Error(t, err)

	tenant := testkit.Tenant(t, db, "active")
	admin := testkit.User(t, db, &tenant.TenantID, constants.RoleAdmin, "Admin")
	_, _, err = seeds.CreateSuperadmin(ctx, db, seeds.SuperadminInput{Email: admin.Email, Password: "longenough"})
	assert.ErrorContains(t, err, "admin")
}

func TestSeedPlansSkipsExistingAndInvalid(t *testing.T) {
	db := testkit.NewDB(t)
	file := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"plan_name": "Starter", "plan_price": "999.00", "plan_duration_months": 1, "plan_features": ["fees"]},
		{"plan_name": "Broken", "plan_price": "0", "plan_duration_months": 1}
	]`), 0o600))

	n, err := seeds.SeedPlansFromJSON(context.Background(), db, file, "INR")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = seeds.SeedPlansFromJSON(context.Background(), db, file, "INR")
	require.NoError(t, err)
	assert.Zero(t, n)

	var plans []subModel.SubscriptionPlanModel
	require.NoError(t, db.Find(&plans).Error)
	require.Len(t, plans, 1)
	assert.Equal(t, "INR", plans[0].PlanCurrency)
	assert.Equal(t, "999", plans[0].PlanPrice.String())
}

func TestSeedPlansShippedFile(t *testing.T) {
	db := testkit.NewDB(t)
	n, err := seeds.SeedPlansFromJSON(context.Background(), db, filepath.Join("plans", "data_plans.json"), "INR")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
