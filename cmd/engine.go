package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/ats"
	"github.com/spigell/resume-ats/internal/cache"
	"github.com/spigell/resume-ats/internal/extract"
	"github.com/spigell/resume-ats/internal/lexicon"
	"github.com/spigell/resume-ats/internal/nlp"
	"github.com/spigell/resume-ats/internal/postag"
	"github.com/spigell/resume-ats/internal/utils"
)

// engine holds the process-wide read-only resources of the pipeline.
type engine struct {
	extractor *extract.Extractor
	builder   *ats.Builder
	store     *cache.Store
	logger    *zap.Logger
}

func newEngine(ctx context.Context, config *Config, logger *zap.Logger) (*engine, error) {
	db := loadLexicon(config.Lexicon, logger)

	var lemmatizer nlp.Lemmatizer = lexicon.NewMorphy(db)
	if config.Lexicon.Lemmatizer == lemmatizerSnowball || db.Words() == 0 {
		lemmatizer = lexicon.Stemmer{}
	}

	e := &engine{logger: logger}

	var textCache extract.TextCache
	if path := utils.ExpandHome(config.Cache.Path); path != "" {
		store, err := cache.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("opening text cache: %w", err)
		}
		e.store = store
		textCache = store

		cached, err := store.Len(ctx)
		if err != nil {
			logger.Warn("counting cached documents", zap.Error(err))
		}
		logger.Debug("text cache enabled", zap.String("path", path), zap.Int("documents", cached))
	}

	e.extractor = extract.New(textCache, logger)
	e.builder = ats.NewBuilder(
		nlp.NewNormalizer(postag.NewProse(logger), lemmatizer),
		nlp.NewExpander(db),
	)

	logger.Debug("engine ready",
		zap.String("lemmatizer", fmt.Sprintf("%T", lemmatizer)),
		zap.Int("words", db.Words()),
		zap.Int("synsets", db.Synsets()),
	)

	return e, nil
}

// loadLexicon reads WordNet from dir. A missing database is not fatal:
// scoring continues with stemming and without synonyms.
func loadLexicon(config *LexiconConfig, logger *zap.Logger) *lexicon.Dictionary {
	dir := utils.ExpandHome(config.WordNetDir)
	if dir == "" {
		logger.Warn("wordnet directory is not configured, synonyms are disabled",
			zap.String("hint", "set WORDNET_DIR or lexicon.wordnet-dir"),
		)
		return lexicon.NewDictionary()
	}

	db, err := lexicon.LoadWordNet(dir)
	if err != nil {
		logger.Warn("loading wordnet failed, synonyms are disabled",
			zap.String("dir", dir),
			zap.Error(err),
			zap.String("hint", "set WORDNET_DIR or lexicon.wordnet-dir"),
		)
		return lexicon.NewDictionary()
	}

	return db
}

func (e *engine) extract(ctx context.Context, path string) (string, error) {
	text, err := e.extractor.Extract(ctx, utils.ExpandHome(path))
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", path, err)
	}
	return text, nil
}

func (e *engine) Close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing text cache", zap.Error(err))
	}
}
