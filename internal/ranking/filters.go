package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type minScoreFilter struct {
	min float64
}

// NewMinScore drops entries scoring below Config.MinScore. Failed entries are
// kept so that they get reported.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Configure(cfg *Config) error {
	if cfg.MinScore < 0 {
		return fmt.Errorf("minimum score must not be negative, got %.2f", cfg.MinScore)
	}
	f.min = cfg.MinScore
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, log *zap.Logger, e *Entries) ([]string, error) {
	if f.min == 0 {
		return nil, nil
	}

	dropped := e.Exclude(func(entry *Entry) bool {
		return !entry.Failed() && entry.Result.Score < f.min
	})
	if len(dropped) > 0 {
		log.Info("excluding job descriptions below the minimum score",
			zap.Float64("min_score", f.min),
			zap.Strings("excluded", dropped),
		)
	}
	return dropped, nil
}

func (f *minScoreFilter) Details() map[string]string {
	return map[string]string{"min_score": strconv.FormatFloat(f.min, 'f', 2, 64)}
}

type topFilter struct {
	limit int
}

// NewTop keeps the first Config.Top scored entries. Failed entries are kept
// so that they get reported. Zero keeps everything.
func NewTop() Filter {
	return &topFilter{}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Configure(cfg *Config) error {
	if cfg.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", cfg.Top)
	}
	f.limit = cfg.Top
	return nil
}

func (f *topFilter) Apply(_ context.Context, log *zap.Logger, e *Entries) ([]string, error) {
	if f.limit == 0 {
		return nil, nil
	}

	kept := 0
	dropped := e.Exclude(func(entry *Entry) bool {
		if entry.Failed() {
			return false
		}
		kept++
		return kept > f.limit
	})
	if len(dropped) == 0 {
		return nil, nil
	}
	log.Info("keeping only the best job descriptions", zap.Int("top", f.limit), zap.Strings("excluded", dropped))
	return dropped, nil
}

func (f *topFilter) Details() map[string]string {
	return map[string]string{"top": strconv.Itoa(f.limit)}
}

// ExcludedJobs is the on-disk list of job descriptions to leave out.
type ExcludedJobs struct {
	Items []*ExcludedJob
}

type ExcludedJob struct {
	Path       string
	Reason     string
	ExcludedAt time.Time
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile drops entries whose path is listed in Config.ExcludeFile.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Configure(cfg *Config) error {
	f.path = cfg.ExcludeFile
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, log *zap.Logger, e *Entries) ([]string, error) {
	if f.path == "" {
		return nil, nil
	}

	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading exclude file %s: %w", f.path, err)
	}

	skip := make(map[string]struct{}, len(excluded.Items))
	for _, item := range excluded.Items {
		skip[item.Path] = struct{}{}
	}

	dropped := e.Exclude(func(entry *Entry) bool {
		_, ok := skip[entry.Path]
		return ok
	})
	if len(dropped) > 0 {
		log.Info("excluding job descriptions based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded", dropped),
		)
	}
	return dropped, nil
}

func (f *excludeFileFilter) Details() map[string]string {
	if f.path == "" {
		return nil
	}
	return map[string]string{"path": f.path}
}

// LoadExcluded reads an exclude file. A missing or empty file excludes
// nothing.
func LoadExcluded(path string) (*ExcludedJobs, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedJobs{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &ExcludedJobs{}, nil
	}

	var excluded ExcludedJobs
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}
