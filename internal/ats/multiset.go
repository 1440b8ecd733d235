// Package ats builds weighted keyword multisets from text and scores a
// resume multiset against a job description multiset.
package ats

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrNegativeWeight = errors.New("negative keyword weight")

// Multiset maps base forms to accumulated non-negative weights. It cannot be
// changed once built.
type Multiset struct {
	weights map[string]float64
}

// Entry is one keyword and its weight.
type Entry struct {
	Term   string
	Weight float64
}

// NewMultiset copies weights into a Multiset. Negative or NaN weights are
// rejected.
func NewMultiset(weights map[string]float64) (Multiset, error) {
	copied := make(map[string]float64, len(weights))
	for term, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return Multiset{}, fmt.Errorf("%q has weight %v: %w", term, w, ErrNegativeWeight)
		}
		copied[term] = w
	}
	return Multiset{weights: copied}, nil
}

// Weight returns the weight of term and whether it is present.
func (m Multiset) Weight(term string) (float64, bool) {
	w, ok := m.weights[term]
	return w, ok
}

func (m Multiset) Has(term string) bool {
	_, ok := m.weights[term]
	return ok
}

func (m Multiset) Len() int {
	return len(m.weights)
}

// Terms returns the keys in lexical order.
func (m Multiset) Terms() []string {
	terms := make([]string, 0, len(m.weights))
	for term := range m.weights {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Total sums all weights, adding terms in lexical order so the result does
// not depend on map iteration.
func (m Multiset) Total() float64 {
	var total float64
	for _, term := range m.Terms() {
		total += m.weights[term]
	}
	return total
}

// Weights returns a copy of the underlying map.
func (m Multiset) Weights() map[string]float64 {
	out := make(map[string]float64, len(m.weights))
	for term, w := range m.weights {
		out[term] = w
	}
	return out
}

// Equal reports whether both multisets hold the same terms with bit-identical
// weights.
func (m Multiset) Equal(other Multiset) bool {
	if len(m.weights) != len(other.weights) {
		return false
	}
	for term, w := range m.weights {
		ow, ok := other.weights[term]
		if !ok || math.Float64bits(w) != math.Float64bits(ow) {
			return false
		}
	}
	return true
}

// Ranked lists the entries heaviest first, ties broken by term.
func (m Multiset) Ranked() []Entry {
	entries := make([]Entry, 0, len(m.weights))
	for term, w := range m.weights {
		entries = append(entries, Entry{Term: term, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Term < entries[j].Term
	})
	return entries
}
