package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"charmi-backend/internal/infrastructure/migrations"
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every embedded migration that is not yet recorded in schema_migrations.
Each migration runs in its own transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := migrations.Run(cmd.Context(), db.Pool, migrations.Files())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
		return nil
	},
}

// migrateListCmd prints the embedded migrations in apply order
var migrateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List embedded migrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := migrations.Pending(migrations.Files())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateListCmd)
	rootCmd.AddCommand(migrateCmd)
}
