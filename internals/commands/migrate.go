package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eduquest_backend/internals/configs"
	database "eduquest_backend/internals/databases"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db := boot()
			defer database.Close()

			if err := database.AutoMigrate(db); err != nil {
				return errors.Wrap(err, "auto migrate")
			}
			configs.Log.Info("✅ migration finished", zap.Int("models", len(database.Models())))
			return nil
		},
	}
}
