package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/cmd/cli/commands"
	"github.com/jakechorley/gradingcommander/internal/config"
	"github.com/jakechorley/gradingcommander/pkg/postgres"
	"github.com/jakechorley/gradingcommander/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{Ctx: context.Background()}
	pg  *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gradingcommander",
		Short: "Grading Commander - Manage handins, deadlines and grading distributions",
		Long: `A CLI tool for course staff: resolve handins against deadline policies,
manage extensions, and distribute groups among TAs for grading.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pg != nil {
				pg.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.DefineEventsCmd(app))
	rootCmd.AddCommand(commands.ImportRosterCmd(app))
	rootCmd.AddCommand(commands.RecordHandinCmd(app))
	rootCmd.AddCommand(commands.ResolveHandinCmd(app))
	rootCmd.AddCommand(commands.GrantExtensionCmd(app))
	rootCmd.AddCommand(commands.RevokeExtensionCmd(app))
	rootCmd.AddCommand(commands.DistributeCmd(app))
	rootCmd.AddCommand(commands.ViewDistributionCmd(app))
	rootCmd.AddCommand(commands.PublishDistributionCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads config, sets up the logger and connects to the database.
// The sheets client is created on demand by the commands that need it.
func initApp() error {
	var err error
	app.Env = env

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger, err = logging.InitLogger(env, app.Cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("course", app.Cfg.Course))

	app.Logger.Info("Connecting to database")
	pg, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = pg
	app.Logger.Debug("Database connected successfully")

	return nil
}
