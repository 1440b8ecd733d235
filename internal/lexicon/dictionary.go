package lexicon

// Dictionary is an in-memory Database. It is populated once and is safe for
// concurrent reads afterwards.
type Dictionary struct {
	index      map[string][]Synset
	exceptions map[Role]map[string][]string
	synsets    int
}

// NewDictionary indexes the given synsets under each of their lemmas, in order.
func NewDictionary(synsets ...Synset) *Dictionary {
	d := &Dictionary{
		index:      make(map[string][]Synset),
		exceptions: make(map[Role]map[string][]string),
	}
	for _, s := range synsets {
		d.Add(s)
	}
	return d
}

// Add registers a synset under each of its lemmas.
func (d *Dictionary) Add(s Synset) {
	seen := make(map[string]struct{}, len(s.Lemmas))
	for _, lemma := range s.Lemmas {
		key := Key(lemma)
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		d.index[key] = append(d.index[key], s)
	}
	d.synsets++
}

// AddException records irregular base forms for an inflected word.
func (d *Dictionary) AddException(role Role, inflected string, bases ...string) {
	byWord, ok := d.exceptions[role]
	if !ok {
		byWord = make(map[string][]string)
		d.exceptions[role] = byWord
	}
	key := Key(inflected)
	for _, base := range bases {
		byWord[key] = append(byWord[key], Key(base))
	}
}

func (d *Dictionary) Lookup(word string) []Synset {
	if d == nil {
		return nil
	}
	return d.index[Key(word)]
}

func (d *Dictionary) Exceptions(word string, role Role) []string {
	if d == nil {
		return nil
	}
	return d.exceptions[role][Key(word)]
}

// Words returns the number of distinct indexed word forms.
func (d *Dictionary) Words() int { return len(d.index) }

// Synsets returns the number of registered synsets.
func (d *Dictionary) Synsets() int { return d.synsets }
