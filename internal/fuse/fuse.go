// Package fuse merges provisional interval sequences produced by independent
// sources into a single non-overlapping timeline.
package fuse

import (
	"cmp"
	"slices"
	"sort"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

const (
	rankUnknown = iota
	rankCategorized
	rankCommute
)

func rank(c model.Category) int {
	switch c {
	case model.Unknown:
		return rankUnknown
	case model.Commute:
		return rankCommute
	default:
		return rankCategorized
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compare orders two candidate intervals by how strongly they claim an instant:
// commute > any other category > unknown, then smart-guess evidence > none.
// It returns a positive number when a wins.
func Compare(a, b model.Interval) int {
	if c := cmp.Compare(rank(a.Category), rank(b.Category)); c != 0 {
		return c
	}
	return cmp.Compare(boolRank(a.HasGuess()), boolRank(b.HasGuess()))
}

// Resolve selects the interval that claims an instant among all candidates
// containing it. Two or more distinct non-commute categories with no commute
// present are ambiguous and resolve to an unknown interval without evidence.
func Resolve(candidates []model.Interval) (model.Interval, bool) {
	if len(candidates) == 0 {
		return model.Interval{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if Compare(c, best) > 0 {
			best = c
		}
	}
	if rank(best.Category) == rankCategorized {
		for _, c := range candidates {
			if rank(c.Category) == rankCategorized && c.Category != best.Category {
				return model.Interval{Category: model.Unknown}, true
			}
		}
	}
	return best, true
}

// pickLocation prefers the winner's location and otherwise the first location
// any candidate carries, regardless of which one won the category.
func pickLocation(winner model.Interval, candidates []model.Interval) *model.Location {
	if winner.Location != nil {
		return winner.Location
	}
	for _, c := range candidates {
		if c.Location != nil {
			return c.Location
		}
	}
	return nil
}

// containing returns the interval of seq holding t. seq must be ordered by start.
func containing(seq []model.Interval, t time.Time) (model.Interval, bool) {
	i := sort.Search(len(seq), func(i int) bool { return seq[i].Start.After(t) })
	if i == 0 {
		return model.Interval{}, false
	}
	if iv := seq[i-1]; iv.Contains(t) {
		return iv, true
	}
	return model.Interval{}, false
}

func boundaries(seqs [][]model.Interval) []time.Time {
	var out []time.Time
	for _, seq := range seqs {
		for _, iv := range seq {
			out = append(out, iv.Start)
			if !iv.Open() {
				out = append(out, iv.End)
			}
		}
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(out, func(a, b time.Time) bool { return a.Equal(b) })
}

// Fuse sweeps the union of all boundary instants of the input sequences and
// emits one interval per boundary, so the output is split exactly where some
// input is split. Spans no input covers stay uncovered. The final interval is
// open when some input is open at its start.
func Fuse(seqs ...[]model.Interval) []model.Interval {
	var out []model.Interval
	var candidates []model.Interval
	for _, t := range boundaries(seqs) {
		candidates = candidates[:0]
		for _, seq := range seqs {
			if iv, ok := containing(seq, t); ok {
				candidates = append(candidates, iv)
			}
		}

		if n := len(out); n > 0 && out[n-1].Open() {
			out[n-1].End = t
		}

		winner, ok := Resolve(candidates)
		if !ok {
			continue
		}
		out = append(out, model.Interval{
			Start:    t,
			Category: winner.Category,
			Guess:    winner.Guess,
			Location: pickLocation(winner, candidates),
		})
	}
	return out
}
