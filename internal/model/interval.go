package model

import "time"

// Interval is the pipeline's working unit: a provisional span with one category.
// A zero End means the interval is still open; only the last interval of a
// sequence may be open.
type Interval struct {
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end,omitzero"`
	Category Category    `json:"category"`
	Guess    *SmartGuess `json:"guess,omitempty"`
	Location *Location   `json:"location,omitempty"`
}

// Open reports whether the interval has no end yet.
func (iv Interval) Open() bool {
	return iv.End.IsZero()
}

// EndOr returns the end, or now if the interval is open.
func (iv Interval) EndOr(now time.Time) time.Time {
	if iv.End.IsZero() {
		return now
	}
	return iv.End
}

// Duration returns the span, measuring open intervals up to now.
func (iv Interval) Duration(now time.Time) time.Duration {
	return iv.EndOr(now).Sub(iv.Start)
}

// Contains reports whether t falls in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	if t.Before(iv.Start) {
		return false
	}
	return iv.End.IsZero() || iv.End.After(t)
}

// HasGuess reports whether the category came from a smart guess.
func (iv Interval) HasGuess() bool {
	return iv.Guess != nil
}

// GuessID returns the id of the attached smart guess, or "".
func (iv Interval) GuessID() string {
	if iv.Guess == nil {
		return ""
	}
	return iv.Guess.ID
}

// Link turns a flat sequence, where each interval implicitly ends where the
// next one starts, into explicit intervals. The last one is left open.
// The input is not modified.
func Link(seq []Interval) []Interval {
	out := make([]Interval, len(seq))
	copy(out, seq)
	for i := range out {
		if i+1 < len(out) {
			out[i].End = out[i+1].Start
		} else {
			out[i].End = time.Time{}
		}
	}
	return out
}
