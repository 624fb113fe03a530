package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/entity"
	"shuttle/internal/journal"
	"shuttle/internal/snapshot"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show snapshot progress and recent run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			store, err := snapshot.NewStore(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			progress := make([][]string, 0, len(entity.AllCategories()))
			for _, cat := range entity.AllCategories() {
				stage, ok := store.Latest(cat)
				if !ok {
					progress = append(progress, []string{string(cat), "-", "-", "-"})
					continue
				}
				records, err := store.Load(cat, stage)
				if err != nil {
					return fmt.Errorf("load %s snapshot: %w", cat, err)
				}
				created := 0
				failed := 0
				for _, record := range records {
					switch record.Common().State {
					case entity.StateCreated, entity.StateReverted:
						created++
					case entity.StateError:
						failed++
					}
				}
				progress = append(progress, []string{
					string(cat),
					stage.Slug(),
					strconv.Itoa(len(records)),
					fmt.Sprintf("%d done, %d failed", created, failed),
				})
			}
			fmt.Fprintln(out, "Snapshot progress")
			fmt.Fprintln(out, renderTable([]string{"Category", "Latest stage", "Records", "Outcome"}, progress))

			runs, err := recentRuns(cfg, limitFlag)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}
			history := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "-"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Local().Format("2006-01-02 15:04:05")
				}
				id := run.ID
				if len(id) > 8 {
					id = id[:8]
				}
				history = append(history, []string{
					id,
					run.Category,
					colorizeStatus(run.Status, colorize),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					finished,
					run.Error,
				})
			}
			fmt.Fprintln(out, "Recent runs")
			fmt.Fprintln(out, renderTable([]string{"Run", "Category", "Status", "Started", "Finished", "Error"}, history))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "Number of runs to show")
	return cmd
}

func recentRuns(cfg *config.Config, limit int) ([]journal.Run, error) {
	store, err := journal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return store.RecentRuns(context.Background(), limit)
}
