package pump

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/timeslots/internal/model"
)

func clock(h, m int) time.Time {
	return time.Date(2024, 3, 5, h, m, 0, 0, time.UTC)
}

func sample(kind model.SampleKind, start, end time.Time, value float64) model.Sample {
	return model.Sample{Kind: kind, Start: start, End: end, Value: value}
}

type span struct {
	start time.Time
	cat   model.Category
}

func assertSpans(t *testing.T, want []span, got []model.Interval) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.start, got[i].Start, "start of interval %d", i)
		assert.Equal(t, w.cat, got[i].Category, "category of interval %d", i)
		if i+1 < len(got) {
			assert.Equal(t, got[i+1].Start, got[i].End, "interval %d ends where the next starts", i)
		} else {
			assert.True(t, got[i].Open(), "last interval is open")
		}
	}
}

func TestActivitiesWalkingSpeedSplitsGroup(t *testing.T) {
	samples := []model.Sample{
		sample(model.SampleWalking, clock(8, 0), clock(8, 5), 600),
		sample(model.SampleWalking, clock(8, 5), clock(8, 10), 600),
		sample(model.SampleWalking, clock(8, 12), clock(8, 17), 60),
	}

	got := Activities(samples, DefaultActivityConfig())

	assertSpans(t, []span{
		{clock(8, 0), model.Commute},
		{clock(8, 12), model.Unknown},
	}, got)
}

func TestActivitiesCyclingAndSleep(t *testing.T) {
	samples := []model.Sample{
		sample(model.SampleCycling, clock(9, 0), clock(9, 20), 5000),
		sample(model.SampleCycling, clock(9, 25), clock(9, 40), 4000),
		sample(model.SampleSleep, clock(22, 0), clock(23, 59), 0),
	}

	got := Activities(samples, DefaultActivityConfig())

	assertSpans(t, []span{
		{clock(9, 0), model.Commute},
		{clock(9, 40), model.Unknown},
	}, got)
}

func TestActivitiesShortUnknownIsAbsorbed(t *testing.T) {
	samples := []model.Sample{
		sample(model.SampleCycling, clock(9, 0), clock(9, 20), 5000),
		sample(model.SampleWalking, clock(9, 22), clock(9, 30), 1200),
	}

	got := Activities(samples, DefaultActivityConfig())

	assertSpans(t, []span{
		{clock(9, 0), model.Commute},
		{clock(9, 30), model.Unknown},
	}, got)
}

func TestActivitiesGapStartsNewGroup(t *testing.T) {
	samples := []model.Sample{
		sample(model.SampleCycling, clock(9, 0), clock(9, 20), 5000),
		sample(model.SampleCycling, clock(10, 0), clock(10, 20), 5000),
	}

	got := Activities(samples, DefaultActivityConfig())

	assertSpans(t, []span{
		{clock(9, 0), model.Commute},
		{clock(9, 20), model.Unknown},
		{clock(10, 0), model.Commute},
		{clock(10, 20), model.Unknown},
	}, got)
}

func TestActivitiesIgnoresMalformedSamples(t *testing.T) {
	samples := []model.Sample{
		sample(model.SampleWalking, clock(9, 10), clock(9, 0), 100),
		sample("swimming", clock(9, 0), clock(9, 30), 1000),
	}

	assert.Empty(t, Activities(samples, DefaultActivityConfig()))
	assert.Empty(t, Activities(nil, DefaultActivityConfig()))
}
