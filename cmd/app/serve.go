package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/handler"
	"github.com/BuzzLyutic/taskhub/internal/model"
	"github.com/BuzzLyutic/taskhub/internal/repo"
	"github.com/BuzzLyutic/taskhub/internal/service"
	"github.com/BuzzLyutic/taskhub/internal/watcher"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API and rescan on document changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(app)
		},
	}
	cmd.Flags().StringVar(&app.cfg.Port, "port", app.cfg.Port, "listen port")
	return cmd
}

func runServe(app *App) error {
	logger := app.logger
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, closeStore, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	taskService := service.NewTaskService(store, logger, app.cfg.WorkerCount)
	if _, err := taskService.Refresh(ctx); err != nil {
		return err
	}
	logger.Info("Initial scan finished", zap.Int("tasks", len(taskService.Tasks())))

	if vault, ok := store.(*repo.VaultStore); ok {
		w, err := watcher.New(vault, logger, app.cfg.WatchDebounce)
		if err != nil {
			logger.Warn("file watching disabled", zap.Error(err))
		} else {
			go func() {
				err := w.Run(ctx, func(events []model.ChangeEvent) {
					for _, ev := range events {
						logger.Debug("document changed", zap.String("document", ev.Ref.ID), zap.Stringer("kind", ev.Kind))
					}
					if _, err := taskService.Refresh(ctx); err != nil {
						logger.Error("refresh after change failed", zap.Error(err))
					}
				})
				if err != nil {
					logger.Error("watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	taskHandler := handler.NewTaskHandler(taskService, app.settings, logger)

	srv := http.Server{
		Addr:         ":" + app.cfg.Port,
		Handler:      handler.NewRouter(taskHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped successfully")
	return nil
}
