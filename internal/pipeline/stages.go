package pipeline

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"shuttle/internal/category"
	"shuttle/internal/entity"
	"shuttle/internal/journal"
	"shuttle/internal/logging"
	"shuttle/internal/pagedriver"
	"shuttle/internal/services"
	"shuttle/internal/snapshot"
)

// runIndex scrapes the source listing into minimal records.
func (o *Orchestrator) runIndex(ctx context.Context, strategy category.Strategy) (journal.StageCounts, error) {
	var counts journal.StageCounts
	cat := strategy.Category()

	if err := o.navigate(ctx, o.cfg.Source.BaseURL+strategy.IndexPath()); err != nil {
		return counts, err
	}
	rows, err := o.driver.ExtractRows(ctx, strategy.Table())
	if err != nil {
		return counts, services.Wrap(services.ErrNavigation, "index", "extract rows", "", err)
	}

	records := make([]entity.Record, 0, len(rows))
	for _, row := range rows {
		counts.Total++
		record, err := strategy.ParseRow(row)
		if err != nil {
			counts.Failed++
			o.logger.Warn("index row rejected",
				logging.String(logging.FieldHref, row["href"]),
				logging.Error(err))
			continue
		}
		counts.Succeeded++
		records = append(records, record)
	}

	if err := o.snapshots.Save(cat, snapshot.StageIndex, records); err != nil {
		return counts, services.Wrap(services.ErrConfiguration, "index", "save snapshot", "", err)
	}
	return counts, nil
}

// runDetails populates category-specific fields for every record still in the
// index state. Per-record failures are recorded on the record; the batch
// continues.
func (o *Orchestrator) runDetails(ctx context.Context, strategy category.Strategy) (journal.StageCounts, error) {
	var counts journal.StageCounts
	cat := strategy.Category()

	records, err := o.loadStageInput(cat, snapshot.StageDetails)
	if err != nil {
		return counts, err
	}

	for _, record := range records {
		counts.Total++
		core := record.Common()
		if core.State != entity.StateIndex {
			counts.Skipped++
			o.logger.Info("record skipped",
				logging.String(logging.FieldHref, core.Href),
				logging.String("state", string(core.State)),
				logging.String("reason", "not awaiting details"))
			continue
		}
		recordCtx := services.WithHref(ctx, core.Href)
		if err := o.scrapeOne(recordCtx, strategy, record); err != nil {
			if services.IsFatal(err) {
				return counts, err
			}
			counts.Failed++
			core.MarkError(services.Message(err))
			o.logger.Warn("detail scrape failed",
				logging.String(logging.FieldHref, core.Href),
				logging.Error(err))
			continue
		}
		counts.Succeeded++
	}

	if err := o.snapshots.Save(cat, snapshot.StageDetails, records); err != nil {
		return counts, services.Wrap(services.ErrConfiguration, "details", "save snapshot", "", err)
	}
	return counts, nil
}

func (o *Orchestrator) scrapeOne(ctx context.Context, strategy category.Strategy, record entity.Record) error {
	core := record.Common()
	if err := o.navigate(ctx, o.cfg.Source.BaseURL+core.Href); err != nil {
		return err
	}
	if err := strategy.ScrapeDetails(ctx, o.driver, record); err != nil {
		return err
	}
	return core.Advance(entity.StateDetails)
}

// runDownloads fetches every referenced file under the category's asset
// directory. Unavailable files clear their reference; fatal failures are
// logged and the stage still persists, best effort.
func (o *Orchestrator) runDownloads(ctx context.Context, strategy category.Strategy) (journal.StageCounts, error) {
	var counts journal.StageCounts
	cat := strategy.Category()

	records, err := o.loadStageInput(cat, snapshot.StageDownloads)
	if err != nil {
		return counts, err
	}

	dir := filepath.Join(o.cfg.Paths.AssetsDir, cat.Plural())
	result, err := o.downloads.Run(ctx, records, dir)
	if err != nil {
		return counts, err
	}
	counts.Total = result.Downloaded + result.Unavailable + result.Failed
	counts.Succeeded = result.Downloaded
	counts.Unavailable = result.Unavailable
	counts.Failed = result.Failed
	if !result.OK() {
		o.logger.Warn("some downloads failed",
			logging.Int("failed", result.Failed),
			logging.Int("downloaded", result.Downloaded))
	}

	if err := o.snapshots.Save(cat, snapshot.StageDownloads, records); err != nil {
		return counts, services.Wrap(services.ErrConfiguration, "downloads", "save snapshot", "", err)
	}
	return counts, nil
}

// runCreate recreates each record on the destination. Inactive and
// already-created records are skipped without touching the page driver, which
// makes a re-run against a partially completed snapshot a no-op for them.
func (o *Orchestrator) runCreate(ctx context.Context, strategy category.Strategy) (journal.StageCounts, error) {
	var counts journal.StageCounts
	cat := strategy.Category()

	records, err := o.loadStageInput(cat, snapshot.StageCreate)
	if err != nil {
		return counts, err
	}
	o.restoreCreatedState(cat, records)

	navigated := false
	var stageErr error
	for _, record := range records {
		counts.Total++
		core := record.Common()
		if reason := createSkipReason(core); reason != "" {
			counts.Skipped++
			o.logger.Info("record skipped",
				logging.String(logging.FieldHref, core.Href),
				logging.String("reason", reason))
			continue
		}
		if !navigated {
			if err := o.navigate(ctx, o.cfg.Destination.BaseURL+strategy.CreatePath()); err != nil {
				stageErr = err
				break
			}
			navigated = true
		}

		recordCtx := services.WithHref(ctx, core.Href)
		if err := pagedriver.CreateNewAndAwaitEmptyForm(recordCtx, o.driver, strategy.Form(),
			o.cfg.Workflow.CreateFormAttempts, o.policy); err != nil {
			// A form that never blanks would corrupt every later
			// submission, so this aborts the stage.
			stageErr = err
			break
		}
		if err := o.createOne(recordCtx, strategy, record); err != nil {
			if services.IsFatal(err) {
				stageErr = err
				break
			}
			counts.Failed++
			core.MarkError(services.Message(err))
			o.logger.Warn("creation failed",
				logging.String(logging.FieldHref, core.Href),
				logging.Error(err))
			continue
		}
		counts.Succeeded++
		o.logger.Info("record created",
			logging.String(logging.FieldHref, core.Href),
			logging.String("created_href", core.CreatedHref))
	}

	// Records created before an abort keep their created state on disk, so a
	// re-run skips them instead of producing duplicates on the destination.
	if err := o.snapshots.Save(cat, snapshot.StageCreate, records); err != nil {
		if stageErr != nil {
			o.logger.Error("save snapshot after aborted stage", logging.Error(err))
			return counts, stageErr
		}
		return counts, services.Wrap(services.ErrConfiguration, "create", "save snapshot", "", err)
	}
	return counts, stageErr
}

// restoreCreatedState carries created hrefs from an earlier create snapshot
// into the stage input, matched by href identity. Without it, a create run
// that was aborted mid-batch would recreate records the destination already
// has on the next attempt.
func (o *Orchestrator) restoreCreatedState(cat entity.Category, records []entity.Record) {
	if !o.snapshots.Exists(cat, snapshot.StageCreate) {
		return
	}
	prior, err := o.snapshots.Load(cat, snapshot.StageCreate)
	if err != nil {
		o.logger.Warn("load earlier create snapshot", logging.Error(err))
		return
	}
	created := make(map[string]string, len(prior))
	for _, record := range prior {
		core := record.Common()
		if core.State == entity.StateCreated && core.CreatedHref != "" {
			created[core.Href] = core.CreatedHref
		}
	}
	for _, record := range records {
		core := record.Common()
		href, ok := created[core.Href]
		if !ok || core.State != entity.StateDetails {
			continue
		}
		if err := core.SetCreated(href); err != nil {
			continue
		}
		o.logger.Info("record created in an earlier run",
			logging.String(logging.FieldHref, core.Href),
			logging.String("created_href", href))
	}
}

// createSkipReason returns why the create stage skips a record, or empty when
// the record should be created.
func createSkipReason(core *entity.Core) string {
	switch {
	case !core.IsActive():
		return "record is inactive"
	case core.State == entity.StateCreated:
		return "already created"
	case core.State == entity.StateError:
		return "previous stage failed"
	case core.State == entity.StateReverted:
		return "reverted to live"
	case core.State != entity.StateDetails:
		return "details never scraped"
	default:
		return ""
	}
}

func (o *Orchestrator) createOne(ctx context.Context, strategy category.Strategy, record entity.Record) error {
	if err := strategy.FillForm(ctx, o.driver, record); err != nil {
		return err
	}
	href, err := pagedriver.SubmitAndVerify(ctx, o.driver, o.policy)
	if err != nil {
		return err
	}
	return record.Common().SetCreated(href)
}

// RunRevert executes the alternate lifecycle for categories that support it:
// records still in the index state are flipped back to live on the source
// system and marked reverted in the index snapshot.
func (o *Orchestrator) RunRevert(ctx context.Context, cat entity.Category) error {
	strategy, err := category.ForCategory(cat)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "", "select strategy", string(cat), err)
	}
	reverter, ok := strategy.(category.Reverter)
	if !ok {
		return services.Wrap(services.ErrConfiguration, "revert", "select strategy",
			string(cat)+" records do not support revert", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(services.WithCategory(ctx, string(cat)), runID)
	ctx = services.WithStage(ctx, "revert")
	logger := o.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldCategory, string(cat)))

	if err := o.journal.BeginRun(ctx, runID, string(cat)); err != nil {
		logger.Warn("journal begin failed", logging.Error(err))
	}

	records, err := o.snapshots.Load(cat, snapshot.StageIndex)
	if err != nil {
		_ = o.journal.FinishRun(ctx, runID, journal.RunStatusFailed, services.Message(err))
		if snapshot.IsNotExist(err) {
			return services.Wrap(services.ErrConfiguration, "revert", "load snapshot",
				"missing index snapshot, run the index stage first", err)
		}
		return services.Wrap(services.ErrConfiguration, "revert", "load snapshot", "", err)
	}

	var counts journal.StageCounts
	for _, record := range records {
		counts.Total++
		core := record.Common()
		if core.State != entity.StateIndex {
			counts.Skipped++
			continue
		}
		recordCtx := services.WithHref(ctx, core.Href)
		if err := o.revertOne(recordCtx, reverter, record); err != nil {
			counts.Failed++
			core.MarkError(services.Message(err))
			logger.Warn("revert failed",
				logging.String(logging.FieldHref, core.Href),
				logging.Error(err))
			continue
		}
		counts.Succeeded++
	}

	if err := o.snapshots.Save(cat, snapshot.StageIndex, records); err != nil {
		_ = o.journal.FinishRun(ctx, runID, journal.RunStatusFailed, err.Error())
		return services.Wrap(services.ErrConfiguration, "revert", "save snapshot", "", err)
	}
	if jerr := o.journal.RecordStage(ctx, runID, "revert", counts); jerr != nil {
		logger.Warn("journal stage record failed", logging.Error(jerr))
	}
	if err := o.journal.FinishRun(ctx, runID, journal.RunStatusCompleted, ""); err != nil {
		logger.Warn("journal finish failed", logging.Error(err))
	}
	logger.Info("revert completed",
		logging.Int("total", counts.Total),
		logging.Int("succeeded", counts.Succeeded),
		logging.Int("failed", counts.Failed))
	return nil
}

func (o *Orchestrator) revertOne(ctx context.Context, reverter category.Reverter, record entity.Record) error {
	core := record.Common()
	if err := o.navigate(ctx, o.cfg.Source.BaseURL+core.Href); err != nil {
		return err
	}
	if err := reverter.Revert(ctx, o.driver, record); err != nil {
		return err
	}
	return core.MarkReverted()
}
