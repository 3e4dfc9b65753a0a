package pipe

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/timeslots/internal/model"
)

func TestEliminateShort(t *testing.T) {
	const threshold = 5 * time.Minute

	tests := []struct {
		name string
		seq  []model.Interval
		want []model.Interval
	}{
		{
			name: "merges into adjacent successor",
			seq: []model.Interval{
				iv(m0, m0+30, model.Work),
				iv(m0+30, m0+33, model.Unknown),
				iv(m0+33, m0+60, model.Food),
				iv(m0+60, -1, model.Unknown),
			},
			want: []model.Interval{
				iv(m0, m0+30, model.Work),
				iv(m0+30, m0+60, model.Food),
				iv(m0+60, -1, model.Unknown),
			},
		},
		{
			name: "drops interval before a gap and stretches predecessor",
			seq: []model.Interval{
				iv(m0, m0+30, model.Work),
				iv(m0+30, m0+32, model.Food),
				iv(m0+40, -1, model.Unknown),
			},
			want: []model.Interval{
				iv(m0, m0+32, model.Work),
				iv(m0+40, -1, model.Unknown),
			},
		},
		{
			name: "last interval is never eliminated",
			seq:  []model.Interval{iv(m0, m0+30, model.Work), iv(m0+30, -1, model.Food)},
			want: []model.Interval{iv(m0, m0+30, model.Work), iv(m0+30, -1, model.Food)},
		},
		{
			name: "globally shortest goes first",
			seq: []model.Interval{
				iv(m0, m0+4, model.Work),
				iv(m0+4, m0+6, model.Food),
				iv(m0+6, m0+40, model.Leisure),
				iv(m0+40, -1, model.Unknown),
			},
			want: []model.Interval{
				iv(m0, m0+40, model.Leisure),
				iv(m0+40, -1, model.Unknown),
			},
		},
		{
			name: "halves of a midnight split are kept",
			seq: []model.Interval{
				iv(hm(23, 30), hm(23, 58), model.Food),
				iv(hm(23, 58), hm(24, 0), model.Work),
				iv(hm(24, 0), hm(24, 3), model.Work),
				iv(hm(24, 3), -1, model.Unknown),
			},
			want: []model.Interval{
				iv(hm(23, 30), hm(23, 58), model.Food),
				iv(hm(23, 58), hm(24, 0), model.Work),
				iv(hm(24, 0), hm(24, 3), model.Work),
				iv(hm(24, 3), -1, model.Unknown),
			},
		},
		{
			name: "interval merely ending at midnight is eliminated",
			seq: []model.Interval{
				iv(hm(23, 30), hm(23, 58), model.Food),
				iv(hm(23, 58), hm(24, 0), model.Work),
				iv(hm(24, 0), -1, model.Unknown),
			},
			want: []model.Interval{
				iv(hm(23, 30), hm(23, 58), model.Food),
				iv(hm(23, 58), -1, model.Work),
			},
		},
		{
			name: "interval merely starting at midnight is eliminated",
			seq: []model.Interval{
				iv(hm(23, 0), hm(24, 0), model.Food),
				iv(hm(24, 0), hm(24, 2), model.Work),
				iv(hm(24, 2), -1, model.Leisure),
			},
			want: []model.Interval{
				iv(hm(23, 0), hm(24, 0), model.Food),
				iv(hm(24, 0), -1, model.Leisure),
			},
		},
		{
			name: "single interval",
			seq:  []model.Interval{iv(m0, m0+1, model.Work)},
			want: []model.Interval{iv(m0, m0+1, model.Work)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EliminateShort(tt.seq, env(hm(26, 0)), threshold))
		})
	}
}

func TestEliminateShortPreservesTotalDuration(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for round := 0; round < 300; round++ {
		seq, now := randomTimeline(r)
		e := env(now)

		got := EliminateShort(seq, e, 5*time.Minute)

		assert.Equal(t, totalDuration(seq, e.Now), totalDuration(got, e.Now), "round %d", round)
		for i, iv := range got[:len(got)-1] {
			if !e.splitAtMidnight(got, i) {
				assert.GreaterOrEqual(t, iv.Duration(e.Now), 5*time.Minute, "round %d interval %d", round, i)
			}
		}
	}
}
