package configs

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AppConfig holds every setting the server and CLI read at boot.
type AppConfig struct {
	AppName string
	Env     string
	Port    string

	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	DBStatementTimeout int

	JWTSecret string
	JWTTTL    time.Duration

	MidtransServerKey string
	MidtransUseProd   bool

	SendgridAPIKey string
	EmailFrom      string
	OTPTTL         time.Duration

	TokenBlacklistTTL time.Duration
	CorsOrigins       []string
	DefaultCurrency   string

	EnvSource string
}

var (
	Conf      *viper.Viper
	JWTSecret string
)

// =======================
// ENV LOADER
// =======================
// LoadEnv loads .env outside production and reports where values came from.
// It runs before the logger exists, so the result is logged by Report.
func LoadEnv() string {
	if os.Getenv("APP_ENV") == "production" {
		return "system env (production)"
	}
	if err := godotenv.Load(); err != nil {
		return "system env (.env not found)"
	}
	return ".env"
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("APP_NAME", "EduQuest")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "eduquest")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_STATEMENT_TIMEOUT_MS", 3000)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL_HOURS", 24)

	v.SetDefault("MIDTRANS_SERVER_KEY", "")
	v.SetDefault("MIDTRANS_USE_PROD", false)

	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "noreply@eduquest.local")
	v.SetDefault("OTP_TTL_MINUTES", 5)

	v.SetDefault("TOKEN_BLACKLIST_TTL_DAYS", 7)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DEFAULT_CURRENCY", "INR")

	v.AutomaticEnv()
	return v
}

// Load reads .env (when present) and the process environment into an AppConfig.
func Load() *AppConfig {
	source := LoadEnv()
	Conf = newViper()

	cfg := &AppConfig{
		AppName: Conf.GetString("APP_NAME"),
		Env:     strings.ToLower(Conf.GetString("APP_ENV")),
		Port:    Conf.GetString("PORT"),

		DBHost:             Conf.GetString("DB_HOST"),
		DBPort:             Conf.GetString("DB_PORT"),
		DBUser:             Conf.GetString("DB_USER"),
		DBPassword:         Conf.GetString("DB_PASSWORD"),
		DBName:             Conf.GetString("DB_NAME"),
		DBSSLMode:          Conf.GetString("DB_SSLMODE"),
		DBStatementTimeout: Conf.GetInt("DB_STATEMENT_TIMEOUT_MS"),

		JWTSecret: Conf.GetString("JWT_SECRET"),
		JWTTTL:    time.Duration(Conf.GetInt("JWT_TTL_HOURS")) * time.Hour,

		MidtransServerKey: Conf.GetString("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:   Conf.GetBool("MIDTRANS_USE_PROD"),

		SendgridAPIKey: Conf.GetString("SENDGRID_API_KEY"),
		EmailFrom:      Conf.GetString("EMAIL_FROM"),
		OTPTTL:         time.Duration(Conf.GetInt("OTP_TTL_MINUTES")) * time.Minute,

		TokenBlacklistTTL: time.Duration(Conf.GetInt("TOKEN_BLACKLIST_TTL_DAYS")) * 24 * time.Hour,
		CorsOrigins:       splitCSV(Conf.GetString("CORS_ORIGINS")),
		DefaultCurrency:   strings.ToUpper(Conf.GetString("DEFAULT_CURRENCY")),
	}

	cfg.EnvSource = source
	JWTSecret = cfg.JWTSecret
	return cfg
}

// Report logs how the config was loaded and what is missing.
func (c *AppConfig) Report(l *zap.Logger) {
	l.Info("config loaded", zap.String("env", c.Env), zap.String("source", c.EnvSource))
	if c.JWTSecret == "" {
		l.Error("JWT_SECRET is not set")
	}
	if c.SendgridAPIKey == "" {
		l.Warn("SENDGRID_API_KEY is not set, mail goes to the console")
	}
}

func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
