// Package pipe holds the ordered cleanup transforms applied to a fused
// timeline. Every transform is pure: it returns a new sequence and never
// modifies its input.
package pipe

import (
	"slices"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// Config holds the cleanup thresholds.
type Config struct {
	MinInterval time.Duration // shorter closed intervals are eliminated
	MinCommute  time.Duration // shorter commutes are folded into neighboring commutes
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinInterval: 5 * time.Minute,
		MinCommute:  8 * time.Minute,
	}
}

// Env is the per-run context the transforms read. It is passed explicitly
// instead of being captured from pipeline state.
type Env struct {
	Now          time.Time
	Zone         *time.Location // calendar days are computed in this zone; nil means time.Local
	HasSlotToday bool           // a finalized slot already starts today
	HasAnySlot   bool           // any finalized slot has ever been persisted
}

func (e Env) zone() *time.Location {
	if e.Zone == nil {
		return time.Local
	}
	return e.Zone
}

// startOfDay returns local midnight at the start of t's day.
func (e Env) startOfDay(t time.Time) time.Time {
	t = t.In(e.zone())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.zone())
}

// nextMidnight returns the first local midnight strictly after t.
func (e Env) nextMidnight(t time.Time) time.Time {
	t = t.In(e.zone())
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, e.zone())
}

func (e Env) isMidnight(t time.Time) bool {
	return !t.IsZero() && e.startOfDay(t).Equal(t)
}

// splitAtMidnight reports whether seq[i] is one half of a midnight split: it
// meets a neighbor exactly at local midnight and shares its category and guess.
// Such pieces are exempt from merging so that capping stays stable.
func (e Env) splitAtMidnight(seq []model.Interval, i int) bool {
	cur := seq[i]
	if i+1 < len(seq) && e.isMidnight(cur.End) && continuesAcross(cur, seq[i+1]) {
		return true
	}
	return i > 0 && e.isMidnight(cur.Start) && continuesAcross(seq[i-1], cur)
}

func continuesAcross(a, b model.Interval) bool {
	return a.End.Equal(b.Start) && a.Category == b.Category && a.GuessID() == b.GuessID()
}

// Pipe is one cleanup transform.
type Pipe func([]model.Interval) []model.Interval

// Default returns the cleanup chain in its fixed order.
func Default(env Env, cfg Config) []Pipe {
	return []Pipe{
		func(seq []model.Interval) []model.Interval { return FirstOfDay(seq, env) },
		func(seq []model.Interval) []model.Interval { return EliminateShort(seq, env, cfg.MinInterval) },
		func(seq []model.Interval) []model.Interval { return ConsolidateCommutes(seq, env, cfg.MinCommute) },
		func(seq []model.Interval) []model.Interval { return CapMidnight(seq, env) },
	}
}

// Run applies pipes in order.
func Run(seq []model.Interval, pipes ...Pipe) []model.Interval {
	out := slices.Clone(seq)
	for _, p := range pipes {
		out = p(out)
	}
	return out
}

// Chain runs the default cleanup chain.
func Chain(seq []model.Interval, env Env, cfg Config) []model.Interval {
	return Run(seq, Default(env, cfg)...)
}
