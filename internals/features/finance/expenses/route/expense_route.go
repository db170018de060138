package route

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/finance/expenses/controller"
)

// ExpenseAdminRoutes: /api/a/expense-categories, /api/a/expenses
func ExpenseAdminRoutes(admin fiber.Router, ec *controller.ExpenseController) {
	cat := admin.Group("/expense-categories")
	cat.Post("/", ec.CreateCategory)
	cat.Get("/", ec.ListCategories)
	cat.Put("/:id", ec.UpdateCategory)
	cat.Delete("/:id", ec.DeleteCategory)

	ex := admin.Group("/expenses")
	ex.Post("/", ec.Create)
	ex.Get("/", ec.List)
	ex.Put("/bulk-status", ec.BulkStatus)
	ex.Get("/reports/summary", ec.Summary)
	ex.Get("/reports/monthly", ec.Monthly)
	ex.Get("/reports/categories", ec.ByCategory)
	ex.Get("/reports/years", ec.Years)
	ex.Get("/:id", ec.Detail)
	ex.Put("/:id", ec.Update)
	ex.Delete("/:id", ec.Delete)
}
