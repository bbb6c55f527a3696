package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/config"
	"github.com/BuzzLyutic/taskhub/internal/repo"
)

type App struct {
	cfg      config.Config
	logger   *zap.Logger
	settings *config.SettingsFile
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	app := &App{
		cfg:      cfg,
		logger:   logger,
		settings: config.NewSettingsFile(cfg.SettingsFile),
	}

	if err := newRootCmd(app).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "taskhub",
		Short:        "Collect and edit checklist tasks across a folder of markdown notes",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&app.cfg.VaultDir, "vault", app.cfg.VaultDir, "vault directory (STORE=vault)")
	cmd.PersistentFlags().StringVar(&app.cfg.Store, "store", app.cfg.Store, "document store: vault or postgres")

	cmd.AddCommand(
		newServeCmd(app),
		newListCmd(app),
		newSetCmd(app),
		newSettingsCmd(app),
		newImportCmd(app),
	)
	return cmd
}

// openStore returns the configured document store and a function releasing it.
func (a *App) openStore(ctx context.Context) (repo.DocumentStore, func(), error) {
	switch a.cfg.Store {
	case config.StoreVault:
		info, err := os.Stat(a.cfg.VaultDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open vault: %w", err)
		}
		if !info.IsDir() {
			return nil, nil, fmt.Errorf("open vault: %s is not a directory", a.cfg.VaultDir)
		}
		return repo.NewVaultStore(a.cfg.VaultDir), func() {}, nil

	case config.StorePostgres:
		pool, err := a.connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", a.cfg.Store)
	}
}

func (a *App) connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping the database: %w", err)
	}
	a.logger.Info("Successfully connected to the Database!")
	return pool, nil
}
