package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authRepo "eduquest_backend/internals/features/users/auth/repository"
)

const (
	blacklistSpec = "@daily"
	otpPurgeSpec  = "@hourly"
)

// StartCleanupScheduler registers the housekeeping jobs and starts cron.
// The caller stops it on shutdown.
func StartCleanupScheduler(db *gorm.DB, log *zap.Logger, blacklistTTL time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{log})))

	if _, err := c.AddFunc(blacklistSpec, func() { CleanupBlacklist(db, log, blacklistTTL, time.Now()) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(otpPurgeSpec, func() { PurgeOTPs(db, log, time.Now()) }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// CleanupBlacklist removes tokens that expired more than ttl ago.
func CleanupBlacklist(db *gorm.DB, log *zap.Logger, ttl time.Duration, now time.Time) int64 {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, now.Add(-ttl))
	if err != nil {
		log.Error("[CLEANUP ERROR] token_blacklist", zap.Error(err))
		return 0
	}
	log.Info("[CLEANUP] token_blacklist", zap.Int64("deleted", n))
	return n
}

func PurgeOTPs(db *gorm.DB, log *zap.Logger, now time.Time) int64 {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := authRepo.PurgeExpiredOTPs(ctx, db, now)
	if err != nil {
		log.Error("[CLEANUP ERROR] email_otps", zap.Error(err))
		return 0
	}
	log.Info("[CLEANUP] email_otps", zap.Int64("deleted", n))
	return n
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ l *zap.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Sugar().Infow(msg, kv...)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Sugar().Errorw(msg, append(kv, "error", err)...)
}
