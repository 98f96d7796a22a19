package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/materialhub-backend/pkg/config"
	"github.com/angelmondragon/materialhub-backend/pkg/db"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
	"github.com/angelmondragon/materialhub-backend/pkg/migrate"
)

var (
	dir  string
	cfg  *config.Config
	logg *logger.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the MaterialHub database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			logg = logger.New(logger.Options{ServiceName: "migrate"})

			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			logg = logger.New(logger.Options{
				ServiceName: "migrate",
				Level:       logger.ParseLevel(cfg.App.LogLevel),
				WarnStack:   cfg.App.LogWarnStack,
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dir, "dir", migrate.DefaultDir, "goose migrations directory")

	root.AddCommand(
		gooseCmd("up", "Apply all pending migrations"),
		gooseCmd("down", "Roll back the latest migration"),
		gooseCmd("status", "Print migration status"),
		versionCmd(),
		createCmd(),
		validateCmd(),
	)
	return root.Execute()
}

// withDatabase opens the configured database for the duration of fn.
func withDatabase(cmd *cobra.Command, fn func(ctx context.Context, client *db.Client) error) error {
	ctx := logg.WithFields(cmd.Context(), map[string]any{
		"env": cfg.App.Env,
		"cmd": cmd.Name(),
		"dir": dir,
	})
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()
	logg.Info(ctx, "migrate ready")
	return fn(ctx, client)
}
