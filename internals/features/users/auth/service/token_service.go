// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	userModel "eduquest_backend/internals/features/users/user/model"
)

const defaultAccessTTL = 24 * time.Hour

type TokenService struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{Secret: secret, TTL: ttl, Now: now}
}

func buildAccessClaims(u userModel.UserModel, now time.Time, ttl time.Duration) jwt.MapClaims {
	claims := jwt.MapClaims{
		"user_id":   u.ID.String(),
		"user_name": u.FullName,
		"role":      u.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	if u.TenantID != nil {
		claims["tenant_id"] = u.TenantID.String()
	}
	return claims
}

// Issue signs an HS256 access token for u.
func (s *TokenService) Issue(u userModel.UserModel) (string, time.Time, error) {
	if s.Secret == "" {
		return "", time.Time{}, errors.New("JWT secret is not configured")
	}
	now := s.Now().UTC()
	claims := buildAccessClaims(u, now, s.TTL)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, now.Add(s.TTL), nil
}

// ExpiryOf reads exp from an already authenticated token.
// Falls back to now+TTL when the claim is unreadable.
func (s *TokenService) ExpiryOf(raw string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, _, err := parser.ParseUnverified(raw, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			return time.Unix(int64(exp), 0).UTC()
		}
	}
	return s.Now().UTC().Add(s.TTL)
}
