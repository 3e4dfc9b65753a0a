package pipe

import (
	"slices"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// EliminateShort repeatedly takes the globally shortest interval, excluding
// the last one, and removes it while it lasts less than threshold. An interval
// adjacent to its successor is merged into it; one followed by a gap is dropped
// and its adjacent predecessor is stretched over its span.
func EliminateShort(seq []model.Interval, env Env, threshold time.Duration) []model.Interval {
	out := slices.Clone(seq)
	for len(out) > 1 {
		i := shortest(out, env)
		if i < 0 || out[i].Duration(env.Now) >= threshold {
			break
		}

		cur, next := out[i], out[i+1]
		if !cur.Open() && cur.End.Equal(next.Start) {
			out[i] = Merge(cur, next, env.Now)
			out = slices.Delete(out, i+1, i+2)
			continue
		}

		if i > 0 && out[i-1].End.Equal(cur.Start) {
			out[i-1].End = cur.End
		}
		out = slices.Delete(out, i, i+1)
	}
	return out
}

// shortest returns the index of the shortest interval among all but the last
// that is not half of a midnight split, preferring the earliest on ties, or -1.
func shortest(seq []model.Interval, env Env) int {
	best := -1
	var bestDur time.Duration
	for i, iv := range seq[:len(seq)-1] {
		if env.splitAtMidnight(seq, i) {
			continue
		}
		if d := iv.Duration(env.Now); best < 0 || d < bestDur {
			best, bestDur = i, d
		}
	}
	return best
}
