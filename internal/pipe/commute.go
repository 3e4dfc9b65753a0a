package pipe

import (
	"slices"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// ConsolidateCommutes folds every commute shorter than threshold into an
// adjacent commute neighbor, the longer one when both qualify. The merged
// interval keeps the neighbor's evidence and stays a commute.
func ConsolidateCommutes(seq []model.Interval, env Env, threshold time.Duration) []model.Interval {
	out := slices.Clone(seq)
	for {
		i, j := nextCommuteMerge(out, env, threshold)
		if i < 0 {
			return out
		}
		lo, hi := min(i, j), max(i, j)

		merged := out[j]
		merged.Category = model.Commute
		merged.Start = out[lo].Start
		merged.End = out[hi].End
		if merged.Location == nil {
			merged.Location = out[i].Location
		}

		out[lo] = merged
		out = slices.Delete(out, lo+1, lo+2)
	}
}

// nextCommuteMerge finds the first short commute i with a commute neighbor j.
func nextCommuteMerge(seq []model.Interval, env Env, threshold time.Duration) (int, int) {
	adjacent := func(a, b model.Interval) bool {
		return !a.Open() && a.End.Equal(b.Start)
	}
	for i, cur := range seq {
		if cur.Category != model.Commute || env.splitAtMidnight(seq, i) || cur.Duration(env.Now) >= threshold {
			continue
		}

		left, right := -1, -1
		if i > 0 && seq[i-1].Category == model.Commute && adjacent(seq[i-1], cur) {
			left = i - 1
		}
		if i+1 < len(seq) && seq[i+1].Category == model.Commute && adjacent(cur, seq[i+1]) {
			right = i + 1
		}

		switch {
		case left >= 0 && right >= 0:
			if seq[right].Duration(env.Now) > seq[left].Duration(env.Now) {
				return i, right
			}
			return i, left
		case left >= 0:
			return i, left
		case right >= 0:
			return i, right
		}
	}
	return -1, -1
}
