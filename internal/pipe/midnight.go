package pipe

import (
	"github.com/rcliao/timeslots/internal/model"
)

// CapMidnight splits every interval crossing local midnight into one piece
// per calendar day. Open intervals are measured up to env.Now and the last
// piece stays open.
func CapMidnight(seq []model.Interval, env Env) []model.Interval {
	out := make([]model.Interval, 0, len(seq))
	for _, iv := range seq {
		end := iv.EndOr(env.Now)
		for {
			midnight := env.nextMidnight(iv.Start)
			if !midnight.Before(end) {
				break
			}
			piece := iv
			piece.End = midnight
			out = append(out, piece)
			iv.Start = midnight
		}
		out = append(out, iv)
	}
	return out
}
