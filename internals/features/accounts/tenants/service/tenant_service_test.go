package service_test

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/constants"
	"eduquest_backend/internals/features/accounts/tenants/dto"
	"eduquest_backend/internals/features/accounts/tenants/model"
	"eduquest_backend/internals/features/accounts/tenants/service"
	authModel "eduquest_backend/internals/features/users/auth/model"
	authScheduler "eduquest_backend/internals/features/users/auth/scheduler"
	authService "eduquest_backend/internals/features/users/auth/service"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/services/email"
	"eduquest_backend/internals/testkit"
)

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

type SignupSuite struct {
	suite.Suite
	db     *gorm.DB
	now    time.Time
	mail   *email.MemorySender
	svc    *service.TenantService
	tokens *authService.TokenService
	auth   *authService.AuthService
}

func (s *SignupSuite) SetupTest() {
	s.db = testkit.NewDB(s.T())
	s.now = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	s.mail = &email.MemorySender{}
	s.svc = service.NewTenantService(s.db, email.Notifier{Sender: s.mail, Log: zap.NewNop(), AppName: "EduQuest"}, 5*time.Minute)
	s.svc.Now = func() time.Time { return s.now }
	s.tokens = authService.NewTokenService("secret", time.Hour, func() time.Time { return s.now })
	s.auth = authService.NewAuthService(s.db, s.tokens)
}

func (s *SignupSuite) request() dto.SignupRequest {
	return dto.SignupRequest{
		TenantName:    " Green Valley ",
		TenantEmail:   "office@greenvalley.test",
		AdminName:     "Asha Rao",
		AdminEmail:    "Asha@GreenValley.test",
		AdminPassword: "secret123",
	}
}

func (s *SignupSuite) lastCode() string {
	msg, ok := s.mail.Last()
	s.Require().True(ok)
	m := otpPattern.FindStringSubmatch(msg.Text)
	s.Require().Len(m, 2)
	return m[1]
}

func (s *SignupSuite) status(err error) int {
	var ae *helper.AppError
	s.Require().ErrorAs(err, &ae)
	return ae.Status
}

func (s *SignupSuite) TestSignupVerifyLogin() {
	ctx := context.Background()
	res, err := s.svc.Signup(ctx, s.request())
	s.Require().NoError(err)
	s.True(res.EmailSent)
	s.Equal("Green Valley", res.Tenant.TenantName)
	s.Equal(model.TenantStatusTrial, res.Tenant.TenantStatus)
	s.Equal(constants.RoleAdmin, res.Admin.Role)

	_, err = s.auth.Login(ctx, "asha@greenvalley.test", "secret123")
	s.Equal(http.StatusForbidden, s.status(err))

	wrong := "000000"
	if s.lastCode() == wrong {
		wrong = "111111"
	}
	err = s.svc.VerifyEmail(ctx, dto.VerifyEmailRequest{Email: "asha@greenvalley.test", OTP: wrong})
	s.Equal(http.StatusBadRequest, s.status(err))
	s.Require().NoError(s.svc.VerifyEmail(ctx, dto.VerifyEmailRequest{Email: "asha@greenvalley.test", OTP: s.lastCode()}))

	login, err := s.auth.Login(ctx, "asha@greenvalley.test", "secret123")
	s.Require().NoError(err)
	s.NotEmpty(login.AccessToken)
	s.Equal(s.now.Add(time.Hour).Unix(), login.ExpiresAt.Unix())

	_, err = s.svc.ResendOTP(ctx, dto.ResendOTPRequest{Email: "asha@greenvalley.test"})
	s.Equal(http.StatusBadRequest, s.status(err))
}

func (s *SignupSuite) TestDuplicateAdminEmail() {
	ctx := context.Background()
	_, err := s.svc.Signup(ctx, s.request())
	s.Require().NoError(err)

	_, err = s.svc.Signup(ctx, s.request())
	s.Equal(http.StatusBadRequest, s.status(err))
}

func (s *SignupSuite) TestExpiredAndReplacedCodes() {
	ctx := context.Background()
	_, err := s.svc.Signup(ctx, s.request())
	s.Require().NoError(err)
	first := s.lastCode()

	s.now = s.now.Add(6 * time.Minute)
	err = s.svc.VerifyEmail(ctx, dto.VerifyEmailRequest{Email: "asha@greenvalley.test", OTP: first})
	s.Equal(http.StatusBadRequest, s.status(err))

	sent, err := s.svc.ResendOTP(ctx, dto.ResendOTPRequest{Email: "asha@greenvalley.test"})
	s.Require().NoError(err)
	s.True(sent)

	var unused int64
	s.Require().NoError(s.db.Model(&model.EmailOTPModel{}).Where("email_otp_is_used = ?", false).Count(&unused).Error)
	s.EqualValues(1, unused)
	s.NoError(s.svc.VerifyEmail(ctx, dto.VerifyEmailRequest{Email: "asha@greenvalley.test", OTP: s.lastCode()}))

	s.EqualValues(2, authScheduler.PurgeOTPs(s.db, zap.NewNop(), s.now))
}

func (s *SignupSuite) TestMailFailureDoesNotFailSignup() {
	s.mail.Fail = context.DeadlineExceeded
	res, err := s.svc.Signup(context.Background(), s.request())
	s.Require().NoError(err)
	s.False(res.EmailSent)
}

func (s *SignupSuite) TestLogoutAndChangePassword() {
	ctx := context.Background()
	_, err := s.svc.Signup(ctx, s.request())
	s.Require().NoError(err)
	s.Require().NoError(s.svc.VerifyEmail(ctx, dto.VerifyEmailRequest{Email: "asha@greenvalley.test", OTP: s.lastCode()}))

	login, err := s.auth.Login(ctx, "asha@greenvalley.test", "secret123")
	s.Require().NoError(err)
	s.Require().NoError(s.auth.Logout(ctx, login.AccessToken))
	s.Require().NoError(s.auth.Logout(ctx, login.AccessToken))

	var n int64
	s.Require().NoError(s.db.Model(&authModel.TokenBlacklist{}).Count(&n).Error)
	s.EqualValues(1, n)

	err = s.auth.ChangePassword(ctx, login.User.ID, "wrong-pass1", "another123")
	s.Equal(http.StatusBadRequest, s.status(err))
	err = s.auth.ChangePassword(ctx, login.User.ID, "secret123", "secret123")
	s.Equal(http.StatusBadRequest, s.status(err))
	s.Require().NoError(s.auth.ChangePassword(ctx, login.User.ID, "secret123", "another123"))

	_, err = s.auth.Login(ctx, "asha@greenvalley.test", "another123")
	s.NoError(err)

	s.now = s.now.Add(9 * 24 * time.Hour)
	s.EqualValues(1, authScheduler.CleanupBlacklist(s.db, zap.NewNop(), 7*24*time.Hour, s.now))
}

func TestSignupSuite(t *testing.T) {
	suite.Run(t, new(SignupSuite))
}
