package pipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/timeslots/internal/model"
)

func TestCapMidnight(t *testing.T) {
	tests := []struct {
		name string
		seq  []model.Interval
		now  int
		want []model.Interval
	}{
		{
			name: "splits at midnight",
			seq:  []model.Interval{iv(hm(23, 0), hm(25, 0), model.Work)},
			now:  hm(26, 0),
			want: []model.Interval{iv(hm(23, 0), hm(24, 0), model.Work), iv(hm(24, 0), hm(25, 0), model.Work)},
		},
		{
			name: "splits every midnight crossed",
			seq:  []model.Interval{iv(hm(22, 0), hm(50, 0), model.Sleep)},
			now:  hm(50, 0),
			want: []model.Interval{
				iv(hm(22, 0), hm(24, 0), model.Sleep),
				iv(hm(24, 0), hm(48, 0), model.Sleep),
				iv(hm(48, 0), hm(50, 0), model.Sleep),
			},
		},
		{
			name: "open interval is measured to now",
			seq:  []model.Interval{iv(hm(23, 30), -1, model.Leisure)},
			now:  hm(24, 15),
			want: []model.Interval{iv(hm(23, 30), hm(24, 0), model.Leisure), iv(hm(24, 0), -1, model.Leisure)},
		},
		{
			name: "ending exactly at midnight is not split",
			seq:  []model.Interval{iv(hm(23, 0), hm(24, 0), model.Work)},
			now:  hm(25, 0),
			want: []model.Interval{iv(hm(23, 0), hm(24, 0), model.Work)},
		},
		{
			name: "same day untouched",
			seq:  []model.Interval{iv(hm(9, 0), hm(17, 0), model.Work), iv(hm(17, 0), -1, model.Unknown)},
			now:  hm(18, 0),
			want: []model.Interval{iv(hm(9, 0), hm(17, 0), model.Work), iv(hm(17, 0), -1, model.Unknown)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapMidnight(tt.seq, env(tt.now)))
		})
	}
}

func TestCapMidnightKeepsEvidence(t *testing.T) {
	guess := &model.SmartGuess{ID: "g1", Category: model.Work}
	loc := &model.Location{Lat: 1, Lon: 2}
	seq := []model.Interval{{Start: at(hm(23, 0)), End: at(hm(25, 0)), Category: model.Work, Guess: guess, Location: loc}}

	got := CapMidnight(seq, env(hm(26, 0)))

	for _, piece := range got {
		assert.Same(t, guess, piece.Guess)
		assert.Same(t, loc, piece.Location)
	}
}

func TestCapMidnightUsesZone(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	// 21:00-23:00 UTC is 23:00-01:00 local
	seq := []model.Interval{iv(hm(21, 0), hm(23, 0), model.Work)}

	got := CapMidnight(seq, Env{Now: at(hm(23, 0)), Zone: zone})

	assert.Len(t, got, 2)
	assert.True(t, got[0].End.Equal(at(hm(22, 0))))
}
