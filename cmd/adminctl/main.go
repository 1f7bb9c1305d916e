package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwhayford/rental-service/internal/config"
	"github.com/mwhayford/rental-service/internal/observability"
	"github.com/mwhayford/rental-service/internal/persistence"
	"github.com/mwhayford/rental-service/internal/seed"
)

func main() {
	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Administrative tasks for the rental service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			return persistence.RunMigrations(ctx, pg.PoolHandle(), logger)
		},
	}
}

func seedCmd() *cobra.Command {
	var owners, perOwner int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate demo owners and listed properties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				return err
			}

			seeder := seed.NewSeeder(pg.PoolHandle(), logger)
			return seeder.Run(ctx, seed.Options{Owners: owners, PropertiesPerOwner: perOwner})
		},
	}
	cmd.Flags().IntVar(&owners, "owners", 5, "number of demo property owners")
	cmd.Flags().IntVar(&perOwner, "per-owner", 4, "properties created per owner")
	return cmd
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Printf("falling back to no-op logger: %v", err)
		logger = zap.NewNop()
	}
	return cfg, logger, nil
}
