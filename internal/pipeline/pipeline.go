// Package pipeline sequences the migration stages for one content category:
// index listing, detail scraping, file downloads, and destination creation.
// Entities live in snapshot files between stages; the orchestrator owns them
// only while a stage runs, and every per-entity failure is recorded on the
// entity rather than aborting the batch.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shuttle/internal/category"
	"shuttle/internal/config"
	"shuttle/internal/download"
	"shuttle/internal/entity"
	"shuttle/internal/journal"
	"shuttle/internal/logging"
	"shuttle/internal/pagedriver"
	"shuttle/internal/services"
	"shuttle/internal/snapshot"
	"shuttle/internal/textutil"
)

// Orchestrator drives the stage sequence against a single page driver
// session. It is single-threaded by design: a live page session is not
// shareable, so only the download manager runs concurrent work.
type Orchestrator struct {
	cfg       *config.Config
	driver    pagedriver.Driver
	snapshots *snapshot.Store
	downloads *download.Manager
	journal   *journal.Store
	logger    *slog.Logger
	policy    pagedriver.StablePolicy
}

// New constructs an orchestrator. The journal may be nil; history recording
// is then skipped.
func New(cfg *config.Config, driver pagedriver.Driver, store *journal.Store, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	snapshots, err := snapshot.NewStore(cfg.Paths.DataDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "open snapshot store", cfg.Paths.DataDir, err)
	}
	downloads := download.NewManager(cfg, logger)
	downloads.Subdir = assetSubdir
	return &Orchestrator{
		cfg:       cfg,
		driver:    driver,
		snapshots: snapshots,
		downloads: downloads,
		journal:   store,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		policy:    pagedriver.PolicyFromConfig(cfg),
	}, nil
}

// assetSubdir groups download-listing assets by their normalized type token.
func assetSubdir(record entity.Record) string {
	listing, ok := record.(*entity.DownloadListing)
	if !ok {
		return ""
	}
	token := listing.TypeToken()
	if token == "" {
		return ""
	}
	return textutil.SanitizeToken(token)
}

// Run executes the stages from first through last for one category. Stages
// read the previous stage's snapshot and persist their own, so any contiguous
// stage range resumes from persisted work.
func (o *Orchestrator) Run(ctx context.Context, cat entity.Category, first, last snapshot.Stage) error {
	strategy, err := category.ForCategory(cat)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "", "select strategy", string(cat), err)
	}
	if first > last {
		return services.Wrap(services.ErrConfiguration, "", "stage range",
			"first stage is after last stage", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(services.WithCategory(ctx, string(cat)), runID)
	logger := o.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldCategory, string(cat)))

	if err := o.journal.BeginRun(ctx, runID, string(cat)); err != nil {
		logger.Warn("journal begin failed", logging.Error(err))
	}
	logger.Info("run started",
		logging.String("first_stage", first.Slug()),
		logging.String("last_stage", last.Slug()))

	for stage := first; stage <= last; stage++ {
		stageCtx := services.WithStage(ctx, stage.Slug())
		started := time.Now()
		counts, err := o.runStage(stageCtx, strategy, stage)
		if jerr := o.journal.RecordStage(ctx, runID, stage.Slug(), counts); jerr != nil {
			logger.Warn("journal stage record failed", logging.Error(jerr))
		}
		if err != nil {
			_ = o.journal.FinishRun(ctx, runID, journal.RunStatusFailed, services.Message(err))
			logger.Error("stage failed",
				logging.String(logging.FieldStage, stage.Slug()),
				logging.Error(err))
			return err
		}
		logger.Info("stage finished",
			logging.String(logging.FieldStage, stage.Slug()),
			logging.Int("total", counts.Total),
			logging.Int("succeeded", counts.Succeeded),
			logging.Int("failed", counts.Failed),
			logging.Int("skipped", counts.Skipped),
			logging.Duration("elapsed", time.Since(started)))
	}

	if err := o.journal.FinishRun(ctx, runID, journal.RunStatusCompleted, ""); err != nil {
		logger.Warn("journal finish failed", logging.Error(err))
	}
	logger.Info("run completed")
	return nil
}

func (o *Orchestrator) runStage(ctx context.Context, strategy category.Strategy, stage snapshot.Stage) (journal.StageCounts, error) {
	switch stage {
	case snapshot.StageIndex:
		return o.runIndex(ctx, strategy)
	case snapshot.StageDetails:
		return o.runDetails(ctx, strategy)
	case snapshot.StageDownloads:
		return o.runDownloads(ctx, strategy)
	case snapshot.StageCreate:
		return o.runCreate(ctx, strategy)
	default:
		return journal.StageCounts{}, services.Wrap(services.ErrConfiguration, "", "run stage",
			"unknown stage", nil)
	}
}

// navigate loads a page with the configured bounded retries and waits for it
// to stabilize.
func (o *Orchestrator) navigate(ctx context.Context, url string) error {
	return pagedriver.NavigateWithRetry(ctx, o.driver, url,
		o.cfg.Workflow.NavRetryAttempts,
		time.Duration(o.cfg.Workflow.NavTimeout)*time.Second,
		o.policy, o.logger)
}

// loadStageInput reads the snapshot feeding the given stage.
func (o *Orchestrator) loadStageInput(cat entity.Category, stage snapshot.Stage) ([]entity.Record, error) {
	prev, ok := stage.Prev()
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, stage.Slug(), "load snapshot",
			"stage has no input snapshot", nil)
	}
	records, err := o.snapshots.Load(cat, prev)
	if err != nil {
		if snapshot.IsNotExist(err) {
			return nil, services.Wrap(services.ErrConfiguration, stage.Slug(), "load snapshot",
				"missing "+prev.Slug()+" snapshot, run that stage first", err)
		}
		return nil, services.Wrap(services.ErrConfiguration, stage.Slug(), "load snapshot", "", err)
	}
	return records, nil
}
