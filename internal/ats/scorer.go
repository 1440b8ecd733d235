package ats

import (
	"errors"
	"math"
	"sort"
)

var ErrNoJobKeywords = errors.New("job description has no keywords")

// Result is the outcome of scoring one resume against one job description.
type Result struct {
	// Score is Earned over Possible as a percentage. Job terms heavier than
	// 1.0 can push it past 100.
	Score float64
	// Matched holds the job terms present in the resume, sorted.
	Matched []string
	// Missing holds the job terms absent from the resume, heaviest first.
	Missing []string
	// Earned and Possible are the raw sums behind Score.
	Earned   float64
	Possible float64
}

// Score compares resume against job. Every job term k with weight wj that is
// also in the resume with weight wr earns min(wr, wj) * wj; the score is the
// earned sum over the total job weight, as a percentage.
func Score(resume, job Multiset) (Result, error) {
	if job.Len() == 0 {
		return Result{}, ErrNoJobKeywords
	}

	res := Result{Matched: []string{}, Missing: []string{}}

	for _, term := range job.Terms() {
		wj := job.weights[term]
		res.Possible += wj

		wr, ok := resume.Weight(term)
		if !ok {
			res.Missing = append(res.Missing, term)
			continue
		}

		res.Matched = append(res.Matched, term)
		res.Earned += math.Min(wr, wj) * wj
	}

	if res.Possible > 0 {
		res.Score = res.Earned / res.Possible * 100
	}

	sort.SliceStable(res.Missing, func(i, j int) bool {
		return job.weights[res.Missing[i]] > job.weights[res.Missing[j]]
	})

	return res, nil
}
