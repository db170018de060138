package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	database "eduquest_backend/internals/databases"
	"eduquest_backend/internals/seeds"
)

func CreateSuperadminCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-superadmin",
		Short: "Create the platform superadmin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db := boot()
			defer database.Close()

			u, created, err := seeds.CreateSuperadmin(cmd.Context(), db, seeds.SuperadminInput{
				Name: name, Email: email, Password: password,
			})
			if err != nil {
				return errors.Wrap(err, "create superadmin")
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "superadmin %s already exists\n", u.Email)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superadmin %s created (id %s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password (min 8 chars)")
	cmd.Flags().StringVar(&name, "name", "Super Admin", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func SeedCmd() *cobra.Command {
	var plansFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load default subscription plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db := boot()
			defer database.Close()

			n, err := seeds.SeedPlansFromJSON(cmd.Context(), db, plansFile, cfg.DefaultCurrency)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d plan(s) inserted\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&plansFile, "plans", "internals/seeds/plans/data_plans.json", "plans JSON file")
	return cmd
}
