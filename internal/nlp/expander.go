package nlp

import (
	"strings"

	"github.com/spigell/resume-ats/internal/lexicon"
)

// Expander finds the words related to a token through the sense groups
// registered for it in the lexical database.
type Expander struct {
	db     lexicon.Database
	morphy *lexicon.Morphy
}

func NewExpander(db lexicon.Database) *Expander {
	return &Expander{db: db, morphy: lexicon.NewMorphy(db)}
}

// Expand returns the lowercase members of every synset of token, role by
// role and sense by sense. Members repeated across senses are repeated in
// the output. Unknown tokens yield nil.
func (e *Expander) Expand(token string) []string {
	if e == nil || e.db == nil {
		return nil
	}

	var related []string
	for _, role := range lexicon.Roles {
		for _, form := range e.morphy.BaseForms(token, role) {
			for _, synset := range e.db.Lookup(form) {
				if synset.Role != role {
					continue
				}
				for _, lemma := range synset.Lemmas {
					related = append(related, strings.ToLower(lemma))
				}
			}
		}
	}

	return related
}
