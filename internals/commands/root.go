package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduquest_backend/internals/configs"
	database "eduquest_backend/internals/databases"
)

// NewRootCmd builds the eduquest CLI; running it bare starts the server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "eduquest",
		Short:         "EduQuest school management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(
		ServeCmd(),
		MigrateCmd(),
		CreateSuperadminCmd(),
		SeedCmd(),
	)
	return root
}

// boot loads config, the logger and the database shared by every command.
func boot() (*configs.AppConfig, *gorm.DB) {
	cfg := configs.Load()
	configs.InitLogger(cfg.Env)
	cfg.Report(configs.Log)
	db := database.ConnectDB(cfg)
	configs.Log.Debug("booted", zap.String("env", cfg.Env))
	return cfg, db
}
