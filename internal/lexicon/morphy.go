package lexicon

import "strings"

type substitution struct {
	suffix      string
	replacement string
}

// detachments are the WordNet morphological substitution rules, per role.
var detachments = map[Role][]substitution{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	Adverb: nil,
}

// Morphy reduces inflected words to base forms known by a Database, using
// exception lists first and suffix detachment rules otherwise.
type Morphy struct {
	db Database
}

func NewMorphy(db Database) *Morphy {
	return &Morphy{db: db}
}

// BaseForms returns every base form of word for the role that the database
// knows, in discovery order. The result is empty when nothing is known.
func (m *Morphy) BaseForms(word string, role Role) []string {
	word = Key(word)
	if word == "" || m == nil || m.db == nil {
		return nil
	}

	if source, ok := m.db.(ExceptionSource); ok {
		if bases := source.Exceptions(word, role); len(bases) > 0 {
			return m.known(append([]string{word}, bases...), role)
		}
	}

	forms := detach([]string{word}, role)
	if known := m.known(append([]string{word}, forms...), role); len(known) > 0 {
		return known
	}

	for len(forms) > 0 {
		forms = detach(forms, role)
		if known := m.known(forms, role); len(known) > 0 {
			return known
		}
	}

	return nil
}

// Lemma returns the shortest known base form of word, or word itself when
// the database has no base form for the role.
func (m *Morphy) Lemma(word string, role Role) string {
	forms := m.BaseForms(word, role)
	if len(forms) == 0 {
		return word
	}

	lemma := forms[0]
	for _, form := range forms[1:] {
		if len(form) < len(lemma) {
			lemma = form
		}
	}
	return lemma
}

func (m *Morphy) known(forms []string, role Role) []string {
	var out []string
	seen := make(map[string]struct{}, len(forms))

	for _, form := range forms {
		if _, ok := seen[form]; ok {
			continue
		}
		if !m.has(form, role) {
			continue
		}
		seen[form] = struct{}{}
		out = append(out, form)
	}
	return out
}

func (m *Morphy) has(form string, role Role) bool {
	for _, s := range m.db.Lookup(form) {
		if s.Role == role {
			return true
		}
	}
	return false
}

func detach(forms []string, role Role) []string {
	var out []string
	for _, form := range forms {
		for _, rule := range detachments[role] {
			if len(form) > len(rule.suffix) && strings.HasSuffix(form, rule.suffix) {
				out = append(out, form[:len(form)-len(rule.suffix)]+rule.replacement)
			}
		}
	}
	return out
}
