package pump

import (
	"time"

	"github.com/rcliao/timeslots/internal/geo"
	"github.com/rcliao/timeslots/internal/model"
)

// LocationConfig tunes the positional-fix pump.
type LocationConfig struct {
	SignificantDistance float64       // meters a fix must move to count
	CommuteSpeed        float64       // m/s at or above which movement is a commute
	IdleThreshold       time.Duration // a commute with no fix for this long is closed
}

// DefaultLocationConfig returns the production thresholds.
func DefaultLocationConfig() LocationConfig {
	return LocationConfig{
		SignificantDistance: 100,
		CommuteSpeed:        2.5, // 9 km/h, faster than walking around a venue
		IdleThreshold:       15 * time.Minute,
	}
}

// LocationInput is the snapshot the location pump works on.
type LocationInput struct {
	Fixes    []model.Location // sorted by timestamp
	LastFix  *model.Location  // best fix carried over from the previous run
	LastSlot *model.Slot      // last persisted slot, if any
	Now      time.Time
}

// LocationOutput holds the provisional intervals and the fix to carry forward.
type LocationOutput struct {
	Intervals []model.Interval
	LastFix   *model.Location
}

// Locations turns positional fixes into commute/unknown intervals. Non-commute
// intervals are classified with g when it has a confident guess.
func Locations(in LocationInput, cfg LocationConfig, g Guesser) LocationOutput {
	var seq sequence
	current := model.Unknown
	if in.LastSlot != nil {
		seq.floor = in.LastSlot.StartTime
		current = in.LastSlot.Category
	}

	var best *model.Location
	if in.LastFix != nil {
		b := *in.LastFix
		best = &b
	}

	stationary := func(at time.Time, loc model.Location) bool {
		iv := model.Interval{Start: at, Category: model.Unknown, Location: &loc}
		if g != nil {
			if guess, ok := g.Predict(loc); ok {
				iv.Category = guess.Category
				iv.Guess = &guess
			}
		}
		if !seq.push(iv) {
			return false
		}
		current = iv.Category
		return true
	}

	for _, fix := range in.Fixes {
		if best == nil {
			best = &fix
			continue
		}
		if !fix.Timestamp.After(best.Timestamp) {
			continue
		}
		if geo.Distance(*best, fix) < cfg.SignificantDistance {
			continue
		}

		prev := *best
		best = &fix

		if geo.Speed(prev, fix) >= cfg.CommuteSpeed {
			if current == model.Commute {
				continue
			}
			iv := model.Interval{Start: prev.Timestamp, Category: model.Commute, Location: &fix}
			if !seq.push(iv) {
				if !fix.Timestamp.After(seq.floor) {
					continue
				}
				// departed before the last slot began and arrived after it
				seq.pushFromFloor(iv)
			}
			current = model.Commute
			continue
		}

		stationary(fix.Timestamp, fix)
	}

	if current == model.Commute && best != nil && in.Now.Sub(best.Timestamp) > cfg.IdleThreshold {
		if !stationary(best.Timestamp, *best) {
			stationary(in.Now, *best)
		}
	}

	return LocationOutput{
		Intervals: model.Link(seq.items),
		LastFix:   best,
	}
}
