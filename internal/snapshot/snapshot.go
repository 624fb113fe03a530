// Package snapshot persists a stage's record collection as a flat JSON file.
//
// One file exists per stage per category, named with the stage number so a
// human can read pipeline progress straight from the directory listing.
// Loading is the exact inverse of saving, including reconstruction of nested
// value types, which is what lets an interrupted run resume stage by stage
// and lets an operator inspect or correct intermediate data between stages.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shuttle/internal/entity"
	"shuttle/internal/fileutil"
)

// Stage is one checkpointed phase of the pipeline. The numeric value is the
// snapshot file's version prefix.
type Stage int

const (
	StageIndex     Stage = 1
	StageDetails   Stage = 2
	StageDownloads Stage = 3
	StageCreate    Stage = 4
)

var allStages = []Stage{StageIndex, StageDetails, StageDownloads, StageCreate}

// AllStages returns the pipeline stages in execution order.
func AllStages() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// Slug returns the stage's filename segment.
func (s Stage) Slug() string {
	switch s {
	case StageIndex:
		return "index"
	case StageDetails:
		return "details"
	case StageDownloads:
		return "downloads"
	case StageCreate:
		return "create"
	default:
		return fmt.Sprintf("stage%d", int(s))
	}
}

// Prev returns the stage whose snapshot this stage reads.
func (s Stage) Prev() (Stage, bool) {
	if s <= StageIndex || s > StageCreate {
		return 0, false
	}
	return s - 1, true
}

// ParseStage converts a slug into a known Stage.
func ParseStage(value string) (Stage, bool) {
	for _, s := range allStages {
		if s.Slug() == value {
			return s, true
		}
	}
	return 0, false
}

// Store reads and writes snapshot files under a single data directory.
type Store struct {
	dir string
}

// NewStore constructs a Store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("snapshot directory must not be empty")
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure snapshot directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the snapshot filename for a category and stage, e.g.
// "2_details_releases.json".
func (s *Store) Path(cat entity.Category, stage Stage) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%s_%s.json", int(stage), stage.Slug(), cat.Plural()))
}

// Save writes the ordered record collection for one stage atomically.
func (s *Store) Save(cat entity.Category, stage Stage, records []entity.Record) error {
	if records == nil {
		records = []entity.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", cat, err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(s.Path(cat, stage), data); err != nil {
		return fmt.Errorf("write %s snapshot: %w", cat, err)
	}
	return nil
}

// Load reads one stage's record collection back in snapshot order,
// reconstructing concrete record types for the category.
func (s *Store) Load(cat entity.Category, stage Stage) ([]entity.Record, error) {
	data, err := os.ReadFile(s.Path(cat, stage))
	if err != nil {
		return nil, fmt.Errorf("read %s snapshot: %w", cat, err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", cat, err)
	}
	records := make([]entity.Record, 0, len(raw))
	for i, message := range raw {
		record := cat.New()
		if record == nil {
			return nil, fmt.Errorf("unknown category %q", cat)
		}
		if err := json.Unmarshal(message, record); err != nil {
			return nil, fmt.Errorf("decode %s snapshot entry %d: %w", cat, i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Exists reports whether a snapshot file is present for the category/stage.
func (s *Store) Exists(cat entity.Category, stage Stage) bool {
	return fileutil.Exists(s.Path(cat, stage))
}

// Latest returns the most advanced stage with a snapshot on disk for the
// category.
func (s *Store) Latest(cat entity.Category) (Stage, bool) {
	for i := len(allStages) - 1; i >= 0; i-- {
		if s.Exists(cat, allStages[i]) {
			return allStages[i], true
		}
	}
	return 0, false
}

// IsNotExist reports whether err came from a missing snapshot file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
