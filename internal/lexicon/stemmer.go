package lexicon

import "github.com/kljensen/snowball/english"

// Stemmer reduces words with the English Snowball stemmer. It ignores the
// role and needs no database, so it serves installs without WordNet.
type Stemmer struct{}

func (Stemmer) Lemma(word string, _ Role) string {
	stem := english.Stem(word, true)
	if stem == "" {
		return word
	}
	return stem
}
