package ats

import (
	"github.com/spigell/resume-ats/internal/nlp"
)

const (
	// TermWeight is added for every occurrence of a base form.
	TermWeight = 1.0
	// SynonymWeight is added for every related term of an occurrence.
	SynonymWeight = 0.5
)

type normalizer interface {
	Normalize(text string) []nlp.Term
}

type expander interface {
	Expand(token string) []string
}

// Builder turns text into a weighted keyword multiset.
type Builder struct {
	normalizer normalizer
	expander   expander
}

// NewBuilder returns a Builder. A nil expander disables synonym weights.
func NewBuilder(n normalizer, e expander) *Builder {
	return &Builder{normalizer: n, expander: e}
}

// Build normalizes text once. Each term adds TermWeight to its lemma and
// SynonymWeight to every related term of its surface token, as returned by
// the expander.
func (b *Builder) Build(text string) Multiset {
	weights := make(map[string]float64)

	for _, term := range b.normalizer.Normalize(text) {
		weights[term.Lemma] += TermWeight

		if b.expander == nil {
			continue
		}
		for _, related := range b.expander.Expand(term.Surface) {
			weights[related] += SynonymWeight
		}
	}

	return Multiset{weights: weights}
}

// Match builds both multisets and scores the resume against the job text.
func (b *Builder) Match(resumeText, jobText string) (Result, error) {
	return Score(b.Build(resumeText), b.Build(jobText))
}
