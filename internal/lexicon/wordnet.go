package lexicon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fluhus/gostuff/nlp/wordnet"
)

// LoadWordNet reads a WordNet 3.x "dict" directory into a Dictionary.
//
// Synsets of a word follow the WordNet sense order for tagged senses. The
// remaining senses follow in synset offset order.
func LoadWordNet(dir string) (*Dictionary, error) {
	wn, err := wordnet.Parse(dir)
	if err != nil {
		return nil, fmt.Errorf("parse wordnet %s: %w", dir, err)
	}
	return fromWordNet(wn)
}

func fromWordNet(wn *wordnet.WordNet) (*Dictionary, error) {
	d := NewDictionary()

	ids := make([]string, 0, len(wn.Synset))
	for id := range wn.Synset {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ss := wn.Synset[id]
		role, ok := ParseRole(ss.Pos)
		if !ok {
			return nil, fmt.Errorf("wordnet synset %s: unknown synset type %q", id, ss.Pos)
		}

		lemmas := make([]string, 0, len(ss.Word))
		for _, word := range ss.Word {
			lemmas = append(lemmas, stripMarker(word))
		}
		d.Add(Synset{ID: string(role) + ":" + ss.Offset, Role: role, Lemmas: lemmas})
	}

	rank := make(map[string]map[string]int, len(wn.LemmaRanked))
	for key, ranked := range wn.LemmaRanked {
		_, word, _ := strings.Cut(key, ".")
		word = Key(word)
		if rank[word] == nil {
			rank[word] = make(map[string]int, len(ranked))
		}
		for i, id := range ranked {
			if _, ok := wn.Synset[id]; !ok {
				return nil, fmt.Errorf("wordnet index: %q refers to unknown synset %s", word, id[1:])
			}
			role, _ := ParseRole(id[:1])
			rank[word][string(role)+":"+id[1:]] = i
		}
	}
	for word, senses := range rank {
		d.order(word, senses)
	}

	for key, bases := range wn.Exception {
		pos, inflected, _ := strings.Cut(key, ".")
		role, ok := ParseRole(pos)
		if !ok {
			continue
		}
		for _, base := range bases {
			_, base, _ = strings.Cut(base, ".")
			d.AddException(role, inflected, base)
		}
	}

	return d, nil
}

// order moves the ranked synsets of word to the front, by rank.
func (d *Dictionary) order(word string, ranks map[string]int) {
	synsets := d.index[word]
	sort.SliceStable(synsets, func(i, j int) bool {
		ri, iok := ranks[synsets[i].ID]
		rj, jok := ranks[synsets[j].ID]
		if iok != jok {
			return iok
		}
		return iok && ri < rj
	})
}

// stripMarker drops adjective position markers such as "(a)", "(p)" or "(ip)".
func stripMarker(word string) string {
	if i := strings.IndexByte(word, '('); i > 0 {
		return word[:i]
	}
	return word
}
