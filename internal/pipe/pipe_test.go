package pipe

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/timeslots/internal/model"
)

// day1 is a Tuesday; minutes are counted from its midnight.
var day1 = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func at(min int) time.Time {
	return day1.Add(time.Duration(min) * time.Minute)
}

// m0 keeps fixtures away from midnight, where split pieces are exempt from merging.
const m0 = 8 * 60

func hm(h, m int) int {
	return h*60 + m
}

// iv builds an interval in minutes from day1 midnight; end < 0 leaves it open.
func iv(start, end int, cat model.Category) model.Interval {
	out := model.Interval{Start: at(start), Category: cat}
	if end >= 0 {
		out.End = at(end)
	}
	return out
}

func env(now int) Env {
	return Env{Now: at(now), Zone: time.UTC, HasAnySlot: true}
}

func totalDuration(seq []model.Interval, now time.Time) time.Duration {
	var sum time.Duration
	for _, iv := range seq {
		sum += iv.Duration(now)
	}
	return sum
}

// randomTimeline builds a contiguous timeline starting on the evening of day1,
// mixing very short and long intervals. The last interval is open.
func randomTimeline(r *rand.Rand) ([]model.Interval, int) {
	cats := []model.Category{model.Unknown, model.Commute, model.Work, model.Food}
	cur := hm(20, 0) + r.Intn(120)
	var flat []model.Interval
	for n := 2 + r.Intn(10); n > 0; n-- {
		in := model.Interval{Start: at(cur), Category: cats[r.Intn(len(cats))]}
		if r.Intn(3) == 0 {
			in.Location = &model.Location{Lat: 52.5, Lon: 13.4, Accuracy: float64(5 + r.Intn(50))}
		}
		flat = append(flat, in)
		if r.Intn(2) == 0 {
			cur += 1 + r.Intn(6)
		} else {
			cur += 5 + r.Intn(120)
		}
	}
	return model.Link(flat), cur + r.Intn(60)
}

func TestChainIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 300; round++ {
		seq, now := randomTimeline(r)
		e := env(now)
		e.HasAnySlot = r.Intn(2) == 0
		e.HasSlotToday = r.Intn(4) == 0

		once := Chain(seq, e, DefaultConfig())
		twice := Chain(once, e, DefaultConfig())

		require.Equal(t, once, twice, "round %d", round)
	}
}

func TestChainDoesNotModifyInput(t *testing.T) {
	seq := []model.Interval{iv(hm(23, 0), hm(23, 2), model.Work), iv(hm(23, 2), -1, model.Food)}
	orig := append([]model.Interval(nil), seq...)

	Chain(seq, env(hm(25, 0)), DefaultConfig())

	assert.Equal(t, orig, seq)
}

func TestChainOrder(t *testing.T) {
	// A short commute next to a longer one survives elimination as a commute,
	// and the result is capped at midnight.
	e := env(hm(24, 30))
	e.HasSlotToday = true
	seq := []model.Interval{
		iv(hm(23, 0), hm(23, 20), model.Commute),
		iv(hm(23, 20), hm(23, 26), model.Commute),
		iv(hm(23, 26), -1, model.Work),
	}

	got := Chain(seq, e, DefaultConfig())

	assert.Equal(t, []model.Interval{
		iv(hm(23, 0), hm(23, 26), model.Commute),
		iv(hm(23, 26), hm(24, 0), model.Work),
		iv(hm(24, 0), -1, model.Work),
	}, got)
}
