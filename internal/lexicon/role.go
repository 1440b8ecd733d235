package lexicon

// Role is the grammatical role of a word as the lexical database understands it.
type Role rune

const (
	Noun      Role = 'n'
	Verb      Role = 'v'
	Adjective Role = 'a'
	Adverb    Role = 'r'
)

// Roles lists every role in the order lookups visit them.
var Roles = []Role{Noun, Verb, Adjective, Adverb}

func (r Role) String() string {
	switch r {
	case Noun:
		return "noun"
	case Verb:
		return "verb"
	case Adjective:
		return "adjective"
	case Adverb:
		return "adverb"
	default:
		return "unknown"
	}
}

// ParseRole maps a WordNet synset type to a Role. Satellite adjectives ('s')
// are folded into Adjective.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "n":
		return Noun, true
	case "v":
		return Verb, true
	case "a", "s":
		return Adjective, true
	case "r":
		return Adverb, true
	default:
		return 0, false
	}
}
