package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eduquest_backend/internals/configs"
	database "eduquest_backend/internals/databases"
	scheduler "eduquest_backend/internals/features/users/auth/scheduler"
	helper "eduquest_backend/internals/helpers"
	"eduquest_backend/internals/middlewares"
	routes "eduquest_backend/internals/route"
	"eduquest_backend/internals/services/email"
	"eduquest_backend/internals/services/gateway"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// NewApp builds the Fiber app with the global middleware chain.
func NewApp(cfg *configs.AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:                 cfg.AppName,
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.FromFiberError,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             90 * time.Second,
	})
	middlewares.SetupMiddlewares(app, cfg)
	return app
}

func runServe(ctx context.Context) error {
	cfg, db := boot()
	defer database.Close()
	database.TunePool()
	database.WarmUpQueries()

	if cfg.MidtransServerKey == "" {
		configs.Log.Warn("MIDTRANS_SERVER_KEY is empty, gateway orders will fail")
	}
	mail := email.Notifier{
		Sender:  email.New(cfg.SendgridAPIKey, cfg.AppName, cfg.EmailFrom, configs.Log),
		Log:     configs.Log,
		AppName: cfg.AppName,
	}

	app := NewApp(cfg)
	routes.SetupRoutes(app, routes.Deps{
		DB:      db,
		Cfg:     cfg,
		Mail:    mail,
		Gateway: gateway.NewMidtrans(cfg.MidtransServerKey, cfg.MidtransUseProd),
	})

	// background jobs after the DB is ready
	jobs, err := scheduler.StartCleanupScheduler(db, configs.Log, cfg.TokenBlacklistTTL)
	if err != nil {
		return err
	}
	defer jobs.Stop()

	errCh := make(chan error, 1)
	go func() {
		configs.Log.Info("✅ listening", zap.String("port", cfg.Port))
		errCh <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	configs.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
