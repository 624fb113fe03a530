package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/entity"
	"shuttle/internal/htmldriver"
	"shuttle/internal/journal"
	"shuttle/internal/pipeline"
	"shuttle/internal/snapshot"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var categoryFlag string
	var fromFlag string
	var toFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run migration stages for one content category",
		Long: `Run executes the pipeline stages (index, details, downloads, create) for one
content category. Each stage reads the previous stage's snapshot and writes
its own, so any contiguous stage range resumes from persisted work.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, ok := entity.ParseCategory(categoryFlag)
			if !ok {
				return fmt.Errorf("unknown category %q (one of: %s)", categoryFlag, categoryList())
			}
			first, ok := snapshot.ParseStage(fromFlag)
			if !ok {
				return fmt.Errorf("unknown stage %q (one of: %s)", fromFlag, stageList())
			}
			last, ok := snapshot.ParseStage(toFlag)
			if !ok {
				return fmt.Errorf("unknown stage %q (one of: %s)", toFlag, stageList())
			}

			release, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			logger := ctx.ensureLogger()
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			driver, err := htmldriver.New(cfg, logger)
			if err != nil {
				return err
			}
			defer driver.Close()

			orch, err := pipeline.New(cfg, driver, store, logger)
			if err != nil {
				return err
			}
			return orch.Run(cmd.Context(), cat, first, last)
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "Content category to migrate (required)")
	cmd.Flags().StringVar(&fromFlag, "from", "index", "First stage to run")
	cmd.Flags().StringVar(&toFlag, "to", "create", "Last stage to run")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newRevertCommand(ctx *commandContext) *cobra.Command {
	var categoryFlag string

	cmd := &cobra.Command{
		Use:   "revert",
		Short: "Revert indexed records back to live on the source system",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, ok := entity.ParseCategory(categoryFlag)
			if !ok {
				return fmt.Errorf("unknown category %q (one of: %s)", categoryFlag, categoryList())
			}

			release, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			logger := ctx.ensureLogger()
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			driver, err := htmldriver.New(cfg, logger)
			if err != nil {
				return err
			}
			defer driver.Close()

			orch, err := pipeline.New(cfg, driver, store, logger)
			if err != nil {
				return err
			}
			return orch.RunRevert(cmd.Context(), cat)
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "Content category to revert (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// acquireRunLock takes the single-instance lock under the data directory so
// two runs never interleave snapshot writes.
func acquireRunLock(cfg *config.Config) (func(), error) {
	lockPath := filepath.Join(cfg.Paths.DataDir, "shuttle.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("another run is already in progress (lock held at %s)", lockPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

func categoryList() string {
	names := ""
	for i, cat := range entity.AllCategories() {
		if i > 0 {
			names += ", "
		}
		names += string(cat)
	}
	return names
}

func stageList() string {
	names := ""
	for i, stage := range snapshot.AllStages() {
		if i > 0 {
			names += ", "
		}
		names += stage.Slug()
	}
	return names
}
