package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Freeeeeet/rental_desk/internal/app"
	"github.com/Freeeeeet/rental_desk/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCmd миграции таблиц бота (сессии операторов, журнал дайджестов)
func MigrateCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage bot database migrations",
	}
	cmd.PersistentFlags().String("dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN (default $DB_DSN)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, logger, func(ctx context.Context, mg *app.Migrator) error {
					if err := mg.Run(ctx); err != nil {
						return err
					}
					return printVersion(cmd, ctx, mg)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, logger, func(ctx context.Context, mg *app.Migrator) error {
					if err := mg.Down(ctx); err != nil {
						return err
					}
					return printVersion(cmd, ctx, mg)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, logger, func(ctx context.Context, mg *app.Migrator) error {
					return printVersion(cmd, ctx, mg)
				})
			},
		},
	)

	return cmd
}

func withMigrator(cmd *cobra.Command, logger *zap.Logger, fn func(ctx context.Context, mg *app.Migrator) error) error {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		return fmt.Errorf("database DSN is required: set DB_DSN or --dsn")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	mg, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return fn(ctx, mg)
}

func printVersion(cmd *cobra.Command, ctx context.Context, mg *app.Migrator) error {
	version, err := mg.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
