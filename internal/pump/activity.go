package pump

import (
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// ActivityConfig tunes the activity-sample pump.
type ActivityConfig struct {
	CommuteSpeed float64       // m/s on a walking sample that counts as a commute
	GroupGap     time.Duration // max gap between samples of one group
	MinUnknown   time.Duration // shorter unknown intervals are absorbed by their successor
}

// DefaultActivityConfig returns the production thresholds.
func DefaultActivityConfig() ActivityConfig {
	return ActivityConfig{
		CommuteSpeed: 1.0,
		GroupGap:     10 * time.Minute,
		MinUnknown:   5 * time.Minute,
	}
}

// Activities turns activity samples into provisional intervals.
// Malformed samples (unknown kind, non-positive duration) are ignored.
func Activities(samples []model.Sample, cfg ActivityConfig) []model.Interval {
	var seq sequence
	for _, group := range groupSamples(samples, cfg.GroupGap) {
		first := group[0]
		switch first.Kind {
		case model.SampleWalking:
			prev := model.Category(-1)
			for _, s := range group {
				cat := model.Unknown
				if s.Value/s.Duration().Seconds() >= cfg.CommuteSpeed {
					cat = model.Commute
				}
				if cat != prev {
					seq.push(model.Interval{Start: s.Start, Category: cat})
					prev = cat
				}
			}
		case model.SampleCycling:
			seq.push(model.Interval{Start: first.Start, Category: model.Commute})
		case model.SampleSleep:
			// sleep is corrected downstream by the user, never auto-categorized
			seq.push(model.Interval{Start: first.Start, Category: model.Unknown})
		}
		seq.push(model.Interval{Start: groupEnd(group), Category: model.Unknown})
	}

	return model.Link(collapse(absorbShortUnknowns(seq.items, cfg.MinUnknown)))
}

func groupSamples(samples []model.Sample, gap time.Duration) [][]model.Sample {
	var groups [][]model.Sample
	var cur []model.Sample
	for _, s := range samples {
		if !model.ValidSampleKinds[s.Kind] || !s.End.After(s.Start) {
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			if prev.Kind != s.Kind || s.Start.Sub(prev.End) >= gap {
				groups = append(groups, cur)
				cur = nil
			}
		}
		cur = append(cur, s)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

func groupEnd(group []model.Sample) time.Time {
	var end time.Time
	for _, s := range group {
		if s.End.After(end) {
			end = s.End
		}
	}
	return end
}

// absorbShortUnknowns drops unknown entries of a flat sequence that last less
// than threshold; the following entry takes over their start.
func absorbShortUnknowns(flat []model.Interval, threshold time.Duration) []model.Interval {
	out := make([]model.Interval, 0, len(flat))
	pending := time.Time{}
	for i, iv := range flat {
		if !pending.IsZero() {
			iv.Start = pending
			pending = time.Time{}
		}
		if i+1 < len(flat) && iv.Category == model.Unknown && flat[i+1].Start.Sub(iv.Start) < threshold {
			pending = iv.Start
			continue
		}
		out = append(out, iv)
	}
	return out
}

// collapse merges consecutive entries of the same category.
func collapse(flat []model.Interval) []model.Interval {
	out := make([]model.Interval, 0, len(flat))
	for _, iv := range flat {
		if n := len(out); n > 0 && out[n-1].Category == iv.Category {
			continue
		}
		out = append(out, iv)
	}
	return out
}
