package controller

import (
	"github.com/gofiber/fiber/v2"

	"eduquest_backend/internals/features/accounts/tenants/dto"
	"eduquest_backend/internals/features/accounts/tenants/service"
	helper "eduquest_backend/internals/helpers"
)

type TenantController struct {
	Svc *service.TenantService
}

func NewTenantController(svc *service.TenantService) *TenantController {
	return &TenantController{Svc: svc}
}

// POST /api/auth/signup
func (tc *TenantController) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := tc.Svc.Signup(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "institute registered, check your email for the verification code", res)
}

// POST /api/auth/verify-email
func (tc *TenantController) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if err := tc.Svc.VerifyEmail(c.UserContext(), req); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "email verified, you can now log in", nil)
}

// POST /api/auth/resend-otp
func (tc *TenantController) ResendOTP(c *fiber.Ctx) error {
	var req dto.ResendOTPRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	sent, err := tc.Svc.ResendOTP(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "verification code issued", fiber.Map{"email_sent": sent})
}
