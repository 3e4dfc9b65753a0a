package pipe

import (
	"slices"

	"github.com/rcliao/timeslots/internal/model"
)

// FirstOfDay guarantees today has a starting interval. When nothing in seq
// starts today and no finalized slot exists for today, an interval is opened
// at env.Now: unknown, or leisure when no slot was ever recorded.
func FirstOfDay(seq []model.Interval, env Env) []model.Interval {
	out := slices.Clone(seq)
	if env.HasSlotToday {
		return out
	}
	today := env.startOfDay(env.Now)
	for _, iv := range out {
		if env.startOfDay(iv.Start).Equal(today) {
			return out
		}
	}

	if n := len(out); n > 0 {
		if !env.Now.After(out[n-1].Start) {
			return out
		}
		if out[n-1].Open() {
			out[n-1].End = env.Now
		}
	}

	cat := model.Unknown
	if !env.HasAnySlot {
		cat = model.Leisure
	}
	return append(out, model.Interval{Start: env.Now, Category: cat})
}
