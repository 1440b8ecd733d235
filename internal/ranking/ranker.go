// Package ranking scores one resume against many job descriptions and
// narrows the result down with a chain of filters.
package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-ats/internal/ats"
	"github.com/spigell/resume-ats/internal/logger"
)

const DefaultWorkers = 4

type textExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

type multisetBuilder interface {
	Build(text string) ats.Multiset
}

// Ranker runs extract, build and score for every job description.
type Ranker struct {
	extractor textExtractor
	builder   multisetBuilder
	workers   int
	logger    *zap.Logger
}

func NewRanker(extractor textExtractor, builder multisetBuilder, workers int, logger *zap.Logger) *Ranker {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{extractor: extractor, builder: builder, workers: workers, logger: logger}
}

// Rank scores resume against each job file. A document that cannot be
// extracted or scored is kept with its error; only cancellation of ctx fails
// the whole run.
func (r *Ranker) Rank(ctx context.Context, resume ats.Multiset, paths []string) (*Entries, error) {
	items := make([]*Entry, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = r.score(ctx, resume, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}

	entries := &Entries{Items: items}
	entries.Sort()
	return entries, nil
}

func (r *Ranker) score(ctx context.Context, resume ats.Multiset, path string) *Entry {
	entry := &Entry{Path: path}
	log := logger.WithDocument(r.logger, path, "")

	text, err := r.extractor.Extract(ctx, path)
	if err != nil {
		log.Warn("job description skipped", zap.Error(err))
		entry.Err = err
		return entry
	}

	result, err := ats.Score(resume, r.builder.Build(text))
	if err != nil {
		log.Warn("job description skipped", zap.Error(err))
		entry.Err = err
		return entry
	}

	log.Debug("job description scored",
		zap.Float64("score", result.Score),
		zap.Int("matched", len(result.Matched)),
	)
	entry.Result = result
	return entry
}
