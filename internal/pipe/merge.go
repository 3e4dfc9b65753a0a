package pipe

import (
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// MergeRule decides which of two adjacent intervals dictates the category and
// evidence of their merge. Decide returns a negative number for a, a positive
// one for b and zero when the rule does not apply.
type MergeRule struct {
	Name   string
	Decide func(a, b model.Interval, now time.Time) int
}

// MergeRules are consulted in order; the first decisive rule wins.
var MergeRules = []MergeRule{
	{Name: "smart-guess", Decide: preferSmartGuess},
	{Name: "location", Decide: preferLocation},
	{Name: "accuracy", Decide: preferAccuracy},
	{Name: "categorized", Decide: preferCategorized},
	{Name: "duration", Decide: preferLonger},
}

func pick(aWins, bWins bool) int {
	switch {
	case aWins && !bWins:
		return -1
	case bWins && !aWins:
		return 1
	}
	return 0
}

// preferSmartGuess: an interval backed by a smart guess wins outright.
func preferSmartGuess(a, b model.Interval, _ time.Time) int {
	return pick(a.HasGuess(), b.HasGuess())
}

// preferLocation: between two guessed intervals, the located one wins.
func preferLocation(a, b model.Interval, _ time.Time) int {
	if !a.HasGuess() || !b.HasGuess() {
		return 0
	}
	return pick(a.Location != nil, b.Location != nil)
}

// preferAccuracy: between two guessed, located intervals, the tighter fix wins.
func preferAccuracy(a, b model.Interval, _ time.Time) int {
	if !a.HasGuess() || !b.HasGuess() || a.Location == nil || b.Location == nil {
		return 0
	}
	return pick(a.Location.Accuracy < b.Location.Accuracy, b.Location.Accuracy < a.Location.Accuracy)
}

// preferCategorized: without guesses, a categorized interval beats unknown.
func preferCategorized(a, b model.Interval, _ time.Time) int {
	if a.HasGuess() || b.HasGuess() {
		return 0
	}
	return pick(a.Category != model.Unknown, b.Category != model.Unknown)
}

func preferLonger(a, b model.Interval, now time.Time) int {
	da, db := a.Duration(now), b.Duration(now)
	return pick(da > db, db > da)
}

// Merge combines adjacent intervals a (earlier) and b (later) into one spanning
// a.Start to b.End. The winner per MergeRules keeps its category and evidence;
// its location falls back to the loser's when it has none.
func Merge(a, b model.Interval, now time.Time) model.Interval {
	winner, loser := a, b
	for _, rule := range MergeRules {
		if d := rule.Decide(a, b, now); d != 0 {
			if d > 0 {
				winner, loser = b, a
			}
			break
		}
	}

	merged := winner
	merged.Start = a.Start
	merged.End = b.End
	if merged.Location == nil {
		merged.Location = loser.Location
	}
	return merged
}
