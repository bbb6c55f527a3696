package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/model"
	"github.com/BuzzLyutic/taskhub/internal/query"
	"github.com/BuzzLyutic/taskhub/internal/render"
	"github.com/BuzzLyutic/taskhub/internal/repo"
	"github.com/BuzzLyutic/taskhub/internal/service"
)

func newListCmd(app *App) *cobra.Command {
	var status, priority, quick, sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Scan the vault and print the matching tasks",
		Example: strings.TrimSpace(`
  taskhub list --status Open --sort Priority
  taskhub list --quick week`),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := query.ParseParams(status, priority, quick, sortBy)
			if err != nil {
				return err
			}
			settings, err := app.settings.Load()
			if err != nil {
				return err
			}
			params.DueOnly = settings.ShowDueOnly

			svc, closeStore, err := app.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if _, err := svc.Refresh(cmd.Context()); err != nil {
				return err
			}
			return render.Tasks(cmd.OutOrStdout(), svc.Query(params), render.Options{ShowFilePath: settings.ShowFilePath})
		},
	}

	cmd.Flags().StringVar(&status, "status", model.FilterAll, "All, Open, In Progress, Complete or Canceled")
	cmd.Flags().StringVar(&priority, "priority", model.FilterAll, "All, High, Medium or Low")
	cmd.Flags().StringVar(&quick, "quick", string(model.QuickAll), "all, today, week or overdue")
	cmd.Flags().StringVar(&sortBy, "sort", string(model.SortDue), "Created, Due, Priority or Status")
	return cmd
}

func newSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <document> <line> <field> [value]",
		Short: "Change one field of the task on a document line",
		Long: "Fields: text, status, priority, created, due, closed, project, people (comma separated).\n" +
			"An omitted value clears the field.",
		Example: `  taskhub set projects/home.md 12 status Complete`,
		Args:    cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("line must be a number: %w", err)
			}
			value := ""
			if len(args) == 4 {
				value = args[3]
			}

			svc, closeStore, err := app.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			task := model.Task{DocumentID: args[0], LineNumber: line}
			text, err := svc.ApplyFieldChange(cmd.Context(), task, model.Field(args[2]), value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newSettingsCmd(app *App) *cobra.Command {
	var showFilePath, showDueOnly bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change persisted display settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.settings.Load()
			if err != nil {
				return err
			}
			changed := false
			if cmd.Flags().Changed("show-file-path") {
				s.ShowFilePath = showFilePath
				changed = true
			}
			if cmd.Flags().Changed("show-due-only") {
				s.ShowDueOnly = showDueOnly
				changed = true
			}
			if changed {
				if err := app.settings.Save(s); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "show_file_path: %t\nshow_due_only: %t\n", s.ShowFilePath, s.ShowDueOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFilePath, "show-file-path", true, "show the document path under each task")
	cmd.Flags().BoolVar(&showDueOnly, "show-due-only", false, "only list tasks that have a due date")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the vault's markdown documents into the Postgres store",
		Long:  "Existing rows with the same document id are replaced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src := repo.NewVaultStore(app.cfg.VaultDir)
			refs, err := src.List(ctx)
			if err != nil {
				return err
			}

			pool, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			dst := repo.NewPostgresStore(pool)

			imported := 0
			for _, ref := range refs {
				text, err := src.Read(ctx, ref)
				if err != nil {
					app.logger.Warn("skipping unreadable document", zap.String("document", ref.ID), zap.Error(err))
					continue
				}
				if err := dst.Put(ctx, ref, text); err != nil {
					return fmt.Errorf("import %s: %w", ref.ID, err)
				}
				imported++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d documents\n", imported, len(refs))
			return nil
		},
	}
}

func (a *App) newService(ctx context.Context) (*service.TaskService, func(), error) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return service.NewTaskService(store, a.logger, a.cfg.WorkerCount), closeStore, nil
}
