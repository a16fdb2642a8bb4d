package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"charmi-backend/internal/config"
	"charmi-backend/internal/infrastructure/database"
	"charmi-backend/pkg/logger"
)

var (
	// Global flags
	envFile string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "charmictl",
	Short: "Operational tooling for the Charmi backend",
	Long: `charmictl runs one-off operations against the Charmi database:

  migrate            - apply the embedded schema migrations
  locations import   - load countries, cities and districts from an xlsx workbook
  token              - mint a bearer token for local testing

Configuration is read from the same environment variables as the API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(cfg.App.Environment)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// connect opens the pool described by the loaded config.
func connect(ctx context.Context) (*database.PostgresDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(cfg.DBConfig())
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
