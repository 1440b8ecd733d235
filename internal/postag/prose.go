package postag

import (
	"sync"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// Prose tags words with the averaged perceptron model shipped with prose.
// The model is loaded on first use and tags are memoised per word, so a
// single Prose value is meant to be shared by the whole process.
type Prose struct {
	logger *zap.Logger

	once  sync.Once
	model *prose.Model
	err   error

	tags sync.Map // word -> tag
}

func NewProse(logger *zap.Logger) *Prose {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prose{logger: logger}
}

func (p *Prose) Tag(word string) string {
	if word == "" {
		return ""
	}
	if cached, ok := p.tags.Load(word); ok {
		return cached.(string)
	}

	tag := p.tag(word)
	p.tags.Store(word, tag)
	return tag
}

func (p *Prose) tag(word string) string {
	if err := p.init(); err != nil {
		return ""
	}

	doc, err := prose.NewDocument(word,
		prose.UsingModel(p.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		p.logger.Debug("tagging word failed", zap.String("word", word), zap.Error(err))
		return ""
	}

	tokens := doc.Tokens()
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0].Tag
}

func (p *Prose) init() error {
	p.once.Do(func() {
		doc, err := prose.NewDocument("init", prose.WithSegmentation(false), prose.WithExtraction(false))
		if err != nil {
			p.err = err
			p.logger.Warn("loading part-of-speech model failed; every word is treated as a noun", zap.Error(err))
			return
		}
		p.model = doc.Model
		p.logger.Debug("part-of-speech model loaded")
	})
	return p.err
}
