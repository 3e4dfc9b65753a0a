// Package guess predicts categories from previously confirmed
// (location, category) observations and keeps those observations fresh
// through usage feedback.
package guess

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/rcliao/timeslots/internal/geo"
	"github.com/rcliao/timeslots/internal/model"
)

const week = 7 * 24 * time.Hour

// Config tunes prediction and retention.
type Config struct {
	Distance   float64       // meters; farther observations are ignored
	TimeWindow time.Duration // max weekday time-of-day distance
	K          int           // neighbors voting
	MaxStrikes int           // error count at which a guess is deleted
	Retention  time.Duration // guesses unused for longer are purged
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		Distance:   100,
		TimeWindow: 5 * time.Hour,
		K:          3,
		MaxStrikes: 3,
		Retention:  30 * 24 * time.Hour,
	}
}

// Predictor runs nearest-neighbor votes over an immutable snapshot of guesses.
type Predictor struct {
	guesses []model.SmartGuess
	cfg     Config
}

// NewPredictor snapshots guesses for prediction.
func NewPredictor(guesses []model.SmartGuess, cfg Config) *Predictor {
	return &Predictor{guesses: slices.Clone(guesses), cfg: cfg}
}

// Len returns the number of guesses in the snapshot.
func (p *Predictor) Len() int {
	return len(p.guesses)
}

// weekOffset places t on a circular week, measured in its own zone.
func weekOffset(t time.Time) time.Duration {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return time.Duration(t.Weekday())*24*time.Hour + t.Sub(midnight)
}

// WeekdayTimeDelta is the circular distance between a and b once both are
// projected onto the same week in b's zone, so last Tuesday 09:05 is five
// minutes away from this Tuesday 09:10.
func WeekdayTimeDelta(a, b time.Time) time.Duration {
	d := weekOffset(a.In(b.Location())) - weekOffset(b)
	if d < 0 {
		d = -d
	}
	d %= week
	if d > week/2 {
		d = week - d
	}
	return d
}

type neighbor struct {
	guess    model.SmartGuess
	distance float64
}

// Predict returns the winning guess for loc: the nearest observation of the
// category that wins a k-nearest-neighbor vote among observations close in
// space and in weekday time. Ties on votes go to the larger inverse-distance
// weight.
func (p *Predictor) Predict(loc model.Location) (model.SmartGuess, bool) {
	var candidates []neighbor
	for _, g := range p.guesses {
		spatial := geo.Distance(g.Location, loc)
		if spatial > p.cfg.Distance {
			continue
		}
		temporal := WeekdayTimeDelta(g.Location.Timestamp, loc.Timestamp)
		if temporal > p.cfg.TimeWindow {
			continue
		}
		ds := spatial / p.cfg.Distance
		dt := float64(temporal) / float64(p.cfg.TimeWindow)
		candidates = append(candidates, neighbor{guess: g, distance: math.Sqrt(ds*ds + dt*dt)})
	}
	if len(candidates) == 0 {
		return model.SmartGuess{}, false
	}

	slices.SortFunc(candidates, func(a, b neighbor) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		return cmp.Compare(a.guess.ID, b.guess.ID)
	})
	k := max(1, min(p.cfg.K, len(candidates)))
	nearest := candidates[:k]

	type tally struct {
		votes  int
		weight float64
		first  int // index of the nearest member
	}
	tallies := map[model.Category]*tally{}
	for i, n := range nearest {
		t, ok := tallies[n.guess.Category]
		if !ok {
			t = &tally{first: i}
			tallies[n.guess.Category] = t
		}
		t.votes++
		t.weight += 1 / (n.distance + 1e-9)
	}

	var winner *tally
	for _, t := range tallies {
		switch {
		case winner == nil,
			t.votes > winner.votes,
			t.votes == winner.votes && t.weight > winner.weight,
			t.votes == winner.votes && t.weight == winner.weight && t.first < winner.first:
			winner = t
		}
	}
	return nearest[winner.first].guess, true
}

// PredictCategory is Predict reduced to the category.
func (p *Predictor) PredictCategory(loc model.Location) (model.Category, bool) {
	g, ok := p.Predict(loc)
	return g.Category, ok
}
