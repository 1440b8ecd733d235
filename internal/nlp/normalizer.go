package nlp

import (
	"github.com/spigell/resume-ats/internal/lexicon"
	"github.com/spigell/resume-ats/internal/postag"
)

// Lemmatizer reduces a word to its base form for a grammatical role.
type Lemmatizer interface {
	Lemma(word string, role lexicon.Role) string
}

// Term is one normalized token.
type Term struct {
	// Surface is the lowercase token as it appeared in the text.
	Surface string
	Lemma   string
	Role    lexicon.Role
}

type Normalizer struct {
	tagger     postag.Tagger
	lemmatizer Lemmatizer
}

func NewNormalizer(tagger postag.Tagger, lemmatizer Lemmatizer) *Normalizer {
	return &Normalizer{tagger: tagger, lemmatizer: lemmatizer}
}

// Normalize tags every token of text on its own, lemmatizes it for the
// inferred role and returns the terms in token order. Duplicates are kept.
func (n *Normalizer) Normalize(text string) []Term {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	terms := make([]Term, 0, len(tokens))
	for _, token := range tokens {
		role := postag.RoleOf(n.tagger.Tag(token))

		lemma := n.lemmatizer.Lemma(token, role)
		if !isWord(lemma) {
			lemma = token
		}

		terms = append(terms, Term{Surface: token, Lemma: lemma, Role: role})
	}

	return terms
}
