// Package pump decomposes raw sensor streams into provisional interval
// sequences. Each pump is a pure function over a sorted event snapshot.
package pump

import (
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// Guesser predicts a category for a location from historical observations.
type Guesser interface {
	Predict(loc model.Location) (model.SmartGuess, bool)
}

// sequence accumulates a flat, strictly increasing interval sequence.
type sequence struct {
	items []model.Interval
	floor time.Time // nothing may start at or before this instant
}

// push appends iv, discarding earlier entries that do not start strictly
// before it. Intervals at or before the floor are ignored.
func (s *sequence) push(iv model.Interval) bool {
	if !s.floor.IsZero() && !iv.Start.After(s.floor) {
		return false
	}
	s.add(iv)
	return true
}

// pushFromFloor appends iv starting no earlier than the floor. The piece at the
// floor re-states the last persisted slot rather than opening a new one.
func (s *sequence) pushFromFloor(iv model.Interval) {
	if iv.Start.Before(s.floor) {
		iv.Start = s.floor
	}
	s.add(iv)
}

func (s *sequence) add(iv model.Interval) {
	for len(s.items) > 0 && !s.items[len(s.items)-1].Start.Before(iv.Start) {
		s.items = s.items[:len(s.items)-1]
	}
	s.items = append(s.items, iv)
}

func (s *sequence) last() (model.Interval, bool) {
	if len(s.items) == 0 {
		return model.Interval{}, false
	}
	return s.items[len(s.items)-1], true
}
