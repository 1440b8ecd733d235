package lexicon

import "strings"

// Synset is a sense group: the words sharing one meaning.
type Synset struct {
	ID     string
	Role   Role
	Lemmas []string
}

// Database is a read-only lexical database.
type Database interface {
	// Lookup returns every synset registered for the exact word form,
	// or nil when the word is unknown.
	Lookup(word string) []Synset
}

// ExceptionSource is implemented by databases that know irregular
// inflections (e.g. "ran" -> "run").
type ExceptionSource interface {
	Exceptions(word string, role Role) []string
}

// Key converts a word into the form used to index the database:
// lowercase, with spaces joined by underscores.
func Key(word string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(word)), " ", "_")
}
