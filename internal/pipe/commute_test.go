package pipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/timeslots/internal/model"
)

func TestConsolidateCommutes(t *testing.T) {
	const threshold = 8 * time.Minute

	tests := []struct {
		name string
		seq  []model.Interval
		want []model.Interval
	}{
		{
			name: "joins commute predecessor",
			seq: []model.Interval{
				iv(m0, m0+20, model.Commute),
				iv(m0+20, m0+25, model.Commute),
				iv(m0+25, m0+60, model.Work),
				iv(m0+60, -1, model.Unknown),
			},
			want: []model.Interval{
				iv(m0, m0+25, model.Commute),
				iv(m0+25, m0+60, model.Work),
				iv(m0+60, -1, model.Unknown),
			},
		},
		{
			name: "prefers the longer neighbor",
			seq: []model.Interval{
				iv(m0, m0+10, model.Commute),
				iv(m0+10, m0+15, model.Commute),
				iv(m0+15, m0+45, model.Commute),
				iv(m0+45, -1, model.Unknown),
			},
			want: []model.Interval{
				iv(m0, m0+10, model.Commute),
				iv(m0+10, m0+45, model.Commute),
				iv(m0+45, -1, model.Unknown),
			},
		},
		{
			name: "no commute neighbor",
			seq: []model.Interval{
				iv(m0, m0+30, model.Work),
				iv(m0+30, m0+35, model.Commute),
				iv(m0+35, -1, model.Unknown),
			},
			want: []model.Interval{
				iv(m0, m0+30, model.Work),
				iv(m0+30, m0+35, model.Commute),
				iv(m0+35, -1, model.Unknown),
			},
		},
		{
			name: "neighbor across a gap is not adjacent",
			seq: []model.Interval{
				iv(m0, m0+30, model.Commute),
				iv(m0+40, m0+45, model.Commute),
				iv(m0+45, -1, model.Unknown),
			},
			want: []model.Interval{
				iv(m0, m0+30, model.Commute),
				iv(m0+40, m0+45, model.Commute),
				iv(m0+45, -1, model.Unknown),
			},
		},
		{
			name: "halves of a midnight split are kept",
			seq: []model.Interval{
				iv(hm(23, 0), hm(23, 55), model.Work),
				iv(hm(23, 55), hm(24, 0), model.Commute),
				iv(hm(24, 0), hm(24, 3), model.Commute),
				iv(hm(24, 3), -1, model.Unknown),
			},
			want: []model.Interval{
				iv(hm(23, 0), hm(23, 55), model.Work),
				iv(hm(23, 55), hm(24, 0), model.Commute),
				iv(hm(24, 0), hm(24, 3), model.Commute),
				iv(hm(24, 3), -1, model.Unknown),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConsolidateCommutes(tt.seq, env(hm(12, 0)), threshold))
		})
	}
}

func TestConsolidateCommutesKeepsNeighborEvidence(t *testing.T) {
	loc := &model.Location{Lat: 52.5, Lon: 13.4}
	seq := []model.Interval{
		{Start: at(m0), End: at(m0 + 30), Category: model.Commute, Location: loc},
		iv(m0+30, m0+33, model.Commute),
		iv(m0+33, -1, model.Unknown),
	}

	got := ConsolidateCommutes(seq, env(hm(12, 0)), 8*time.Minute)

	assert.Len(t, got, 2)
	assert.Same(t, loc, got[0].Location)
	assert.Equal(t, at(m0+33), got[0].End)
}
