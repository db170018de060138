package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
)

var DB *gorm.DB

func ConnectDB(cfg *configs.AppConfig) *gorm.DB {
	configs.Log.Info("connecting to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=eduquest&options=-c statement_timeout=%d",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
		cfg.DBStatementTimeout,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(configs.Log),
		TranslateError: true,
	})
	if err != nil {
		configs.Log.Fatal("db connect failed", zap.Error(err))
	}
	DB = db
	configs.Log.Info("db connected")
	return db
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		configs.Log.Warn("pool tune failed", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			configs.Log.Warn("warm-up ping failed", zap.Error(err))
		}
	}()
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
