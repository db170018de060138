package details

import (
	billController "eduquest_backend/internals/features/finance/bills/controller"
	billRoute "eduquest_backend/internals/features/finance/bills/route"
	billService "eduquest_backend/internals/features/finance/bills/service"
	expenseController "eduquest_backend/internals/features/finance/expenses/controller"
	expenseRoute "eduquest_backend/internals/features/finance/expenses/route"
	expenseService "eduquest_backend/internals/features/finance/expenses/service"
	feeController "eduquest_backend/internals/features/finance/fees/controller"
	feeRoute "eduquest_backend/internals/features/finance/fees/route"
	feeService "eduquest_backend/internals/features/finance/fees/service"
	paymentController "eduquest_backend/internals/features/finance/payments/controller"
	paymentRoute "eduquest_backend/internals/features/finance/payments/route"
	paymentService "eduquest_backend/internals/features/finance/payments/service"
)

// FinanceRoutes: fees, bills, payments (incl. the gateway webhook) and expenses.
func FinanceRoutes(g Groups, d Deps) {
	feeRoute.FeeAdminRoutes(g.Admin,
		feeController.NewFeeTypeController(d.DB),
		feeController.NewFeeStructureController(d.DB, feeService.New(d.DB)),
	)

	bills := billService.New(d.DB)
	billCtrl := billController.NewBillController(d.DB, bills)
	billRoute.BillAdminRoutes(g.Admin, billCtrl)
	billRoute.BillStudentRoutes(g.Student, billCtrl)

	payments := paymentController.NewPaymentController(d.DB,
		paymentService.New(d.DB, d.Gateway, d.Cfg.DefaultCurrency), bills, d.Subs)
	paymentRoute.PaymentAdminRoutes(g.Admin, payments)
	paymentRoute.PaymentStudentRoutes(g.Student, payments)
	paymentRoute.PaymentPublicRoutes(g.Public, payments)

	expenseRoute.ExpenseAdminRoutes(g.Admin,
		expenseController.NewExpenseController(d.DB, expenseService.New(d.DB)))
}
