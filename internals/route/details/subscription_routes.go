package details

import (
	subController "eduquest_backend/internals/features/subscriptions/controller"
	subRoute "eduquest_backend/internals/features/subscriptions/route"
	superController "eduquest_backend/internals/features/superadmin/controller"
	superRoute "eduquest_backend/internals/features/superadmin/route"
	superService "eduquest_backend/internals/features/superadmin/service"
)

func SubscriptionRoutes(g Groups, d Deps) {
	ctrl := subController.NewSubscriptionController(d.DB, d.Subs)
	subRoute.SubscriptionPublicRoutes(g.Public, ctrl)
	subRoute.SubscriptionAdminRoutes(g.Admin, ctrl)
}

// SuperadminRoutes: /api/s
func SuperadminRoutes(g Groups, d Deps) {
	sc := superController.NewSuperadminController(d.DB, superService.New(d.DB, d.Subs), d.Cfg.DefaultCurrency)
	superRoute.SuperadminRoutes(g.Super, sc)
}
