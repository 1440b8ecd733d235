// Package postag assigns part-of-speech tags to single words and maps them to
// the grammatical roles the lexical database understands.
package postag

import (
	"strings"

	"github.com/spigell/resume-ats/internal/lexicon"
)

// Tagger tags one word in isolation and returns its Penn Treebank tag,
// or an empty string when the word cannot be tagged.
type Tagger interface {
	Tag(word string) string
}

// Fixed is a Tagger backed by a fixed word -> tag table.
type Fixed map[string]string

func (f Fixed) Tag(word string) string {
	return f[word]
}

// RoleOf maps a Penn Treebank tag to a role by its first letter:
// J adjective, N noun, V verb, R adverb. Anything else is a noun.
func RoleOf(tag string) lexicon.Role {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return lexicon.Noun
	}

	switch strings.ToUpper(tag[:1]) {
	case "J":
		return lexicon.Adjective
	case "V":
		return lexicon.Verb
	case "R":
		return lexicon.Adverb
	default:
		return lexicon.Noun
	}
}
