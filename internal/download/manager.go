package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"shuttle/internal/config"
	"shuttle/internal/entity"
	"shuttle/internal/fileutil"
	"shuttle/internal/logging"
	"shuttle/internal/services"
	"shuttle/internal/textutil"
	"shuttle/internal/values"
)

// maxWorkers caps the pool regardless of configuration.
const maxWorkers = 5

// HTTPDoer describes the HTTP client a download worker uses.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Manager downloads the files referenced by a batch of records.
type Manager struct {
	workers   int
	newClient func() HTTPDoer
	logger    *slog.Logger
	// Subdir, when set, resolves a per-record subdirectory beneath the
	// target directory (download listings group assets by type).
	Subdir func(entity.Record) string
}

// NewManager constructs a Manager from configuration. Each worker gets its
// own client from the factory so no connection state is shared.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	timeout := time.Duration(cfg.Downloads.RequestTimeout) * time.Second
	return &Manager{
		workers: clampWorkers(cfg.Downloads.Workers),
		newClient: func() HTTPDoer {
			return &http.Client{Timeout: timeout}
		},
		logger: logging.NewComponentLogger(logger, "download"),
	}
}

// WithClientFactory overrides the per-worker client factory.
func (m *Manager) WithClientFactory(factory func() HTTPDoer) *Manager {
	if factory != nil {
		m.newClient = factory
	}
	return m
}

func clampWorkers(workers int) int {
	if workers < 1 {
		return 1
	}
	if workers > maxWorkers {
		return maxWorkers
	}
	return workers
}

// Result summarizes one batch. Cleared 404/403 references count as
// Unavailable, not Failed; OK reports the batch contract from the stage's
// point of view, AllDownloaded reports whether every referenced file
// actually arrived.
type Result struct {
	Downloaded  int
	Unavailable int
	Failed      int
}

// OK reports whether the batch had no fatal failures. Cleared references are
// not failures.
func (r Result) OK() bool { return r.Failed == 0 }

// AllDownloaded reports whether every reference produced a local file.
func (r Result) AllDownloaded() bool { return r.Failed == 0 && r.Unavailable == 0 }

func (r *Result) merge(other Result) {
	r.Downloaded += other.Downloaded
	r.Unavailable += other.Unavailable
	r.Failed += other.Failed
}

// Run fetches every reference in every record's downloadable-files view into
// dir. Records are partitioned across the worker pool by interleaved index;
// results are merged only after all workers finish, so the merged counts are
// independent of completion order.
func (m *Manager) Run(ctx context.Context, records []entity.Record, dir string) (Result, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return Result{}, services.Wrap(services.ErrDownload, "downloads", "ensure directory", dir, err)
	}
	if len(records) == 0 {
		return Result{}, nil
	}

	workers := m.workers
	if workers > len(records) {
		workers = len(records)
	}

	results := make([]Result, workers)
	var wg sync.WaitGroup
	for k := 0; k < workers; k++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			client := m.newClient()
			for i := worker; i < len(records); i += workers {
				results[worker].merge(m.processRecord(ctx, client, records[i], dir))
			}
		}(k)
	}
	wg.Wait()

	var total Result
	for _, r := range results {
		total.merge(r)
	}
	return total, nil
}

func (m *Manager) processRecord(ctx context.Context, client HTTPDoer, record entity.Record, dir string) Result {
	targetDir := dir
	if m.Subdir != nil {
		if sub := m.Subdir(record); sub != "" {
			targetDir = filepath.Join(dir, sub)
		}
	}

	var result Result
	var failure string
	href := record.Common().Href
	for _, ref := range record.Files() {
		outcome := m.fetchFile(ctx, client, ref, targetDir)
		switch outcome {
		case outcomeDownloaded:
			result.Downloaded++
		case outcomeUnavailable:
			result.Unavailable++
			m.logger.Info("remote file unavailable, reference cleared",
				logging.String(logging.FieldHref, href))
		case outcomeFailed:
			result.Failed++
			if failure == "" {
				failure = fmt.Sprintf("download failed for %s", ref.Filename())
			}
			m.logger.Warn("file download failed",
				logging.String(logging.FieldHref, href))
		}
	}
	// A record with a fatal download failure must not reach the create
	// stage carrying a reference to a file that never arrived.
	if failure != "" {
		record.Common().MarkError(failure)
	}
	return result
}

type fetchOutcome int

const (
	outcomeDownloaded fetchOutcome = iota
	outcomeUnavailable
	outcomeFailed
)

func (m *Manager) fetchFile(ctx context.Context, client HTTPDoer, ref *values.FileRef, dir string) fetchOutcome {
	filename := textutil.NormalizeFilename(ref.Filename())
	if filename == "" {
		m.logger.Warn("reference has no usable filename",
			logging.String("remote_path", ref.RemotePath))
		return outcomeFailed
	}
	localPath := strings.ReplaceAll(filepath.Join(dir, filename), "\\", "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.RemotePath, nil)
	if err != nil {
		m.logger.Warn("build download request", logging.Error(err))
		return outcomeFailed
	}
	resp, err := client.Do(req)
	if err != nil {
		m.logger.Warn("fetch remote file",
			logging.String("remote_path", ref.RemotePath), logging.Error(err))
		return outcomeFailed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		ref.Clear()
		return outcomeUnavailable
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		m.logger.Warn("unexpected download status",
			logging.String("remote_path", ref.RemotePath),
			logging.Int("status", resp.StatusCode))
		return outcomeFailed
	}

	if err := fileutil.EnsureDir(filepath.Dir(localPath)); err != nil {
		m.logger.Warn("ensure download directory", logging.Error(err))
		return outcomeFailed
	}
	written, err := fileutil.WriteStream(localPath, resp.Body)
	if err != nil {
		m.logger.Warn("write downloaded file",
			logging.String("local_path", localPath), logging.Error(err))
		return outcomeFailed
	}
	// The local path is recorded only once the file exists on disk.
	ref.SetLocalPath(localPath)
	m.logger.Debug("file downloaded",
		logging.String("local_path", localPath),
		logging.Int64("bytes", written))
	return outcomeDownloaded
}
