package ranking

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/spigell/resume-ats/internal/ats"
)

// Entry is one scored job description.
type Entry struct {
	Path   string
	Result ats.Result
	Err    error
}

// Failed reports whether the document could not be scored.
func (e *Entry) Failed() bool {
	return e.Err != nil
}

type Entries struct {
	Items []*Entry
}

func (e *Entries) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Items)
}

// Sort orders scored entries by score descending then path. Failed entries
// go last, ordered by path.
func (e *Entries) Sort() {
	sort.SliceStable(e.Items, func(i, j int) bool {
		a, b := e.Items[i], e.Items[j]
		if a.Failed() != b.Failed() {
			return !a.Failed()
		}
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		return a.Path < b.Path
	})
}

// Exclude removes the entries matching drop, keeping the order of the rest,
// and returns the removed paths.
func (e *Entries) Exclude(drop func(*Entry) bool) []string {
	var excluded []string
	kept := e.Items[:0]
	for _, entry := range e.Items {
		if drop(entry) {
			excluded = append(excluded, entry.Path)
			continue
		}
		kept = append(kept, entry)
	}
	e.Items = kept
	return excluded
}

// Paths lists the entry paths in order.
func (e *Entries) Paths() []string {
	paths := make([]string, 0, e.Len())
	for _, entry := range e.Items {
		paths = append(paths, entry.Path)
	}
	return paths
}

type dumpedEntry struct {
	Path     string   `json:"path"`
	Score    float64  `json:"score"`
	Matched  []string `json:"matched,omitempty"`
	Missing  []string `json:"missing,omitempty"`
	Earned   float64  `json:"earned"`
	Possible float64  `json:"possible"`
	Error    string   `json:"error,omitempty"`
}

// Dump writes the entries as indented JSON.
func (e *Entries) Dump(w io.Writer) error {
	out := make([]dumpedEntry, 0, e.Len())
	for _, entry := range e.Items {
		d := dumpedEntry{
			Path:     entry.Path,
			Score:    entry.Result.Score,
			Matched:  entry.Result.Matched,
			Missing:  entry.Result.Missing,
			Earned:   entry.Result.Earned,
			Possible: entry.Result.Possible,
		}
		if entry.Err != nil {
			d.Error = entry.Err.Error()
		}
		out = append(out, d)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
