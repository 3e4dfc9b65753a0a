package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/timeslots/internal/model"
	"github.com/rcliao/timeslots/internal/store"
)

func TestReadEvents(t *testing.T) {
	input := `{"type":"fix","lat":52.52,"lon":13.4,"accuracy":8,"timestamp":"2024-03-05T08:00:00Z"}

{"type":"fix","lat":52.53,"lon":13.4,"speed":3.5,"timestamp":"2024-03-05T08:05:00Z"}
{"type":"sample","kind":"walking","start":"2024-03-05T08:00:00Z","end":"2024-03-05T08:10:00Z","value":900}
`
	batch, err := readEvents(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, batch.fixes, 2)
	require.Len(t, batch.samples, 1)

	assert.Equal(t, -1.0, batch.fixes[0].Speed, "missing speed is unknown")
	assert.Equal(t, 3.5, batch.fixes[1].Speed)
	assert.Equal(t, model.SampleWalking, batch.samples[0].Kind)
	assert.Equal(t, 10*time.Minute, batch.samples[0].Duration())
}

func TestReadEventsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad json", `{"type":`},
		{"unknown type", `{"type":"heartbeat"}`},
		{"bad kind", `{"type":"sample","kind":"swimming"}`},
		{"fix without time", `{"type":"fix","lat":1,"lon":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readEvents(strings.NewReader("\n" + tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", formatDuration(-time.Minute))
	assert.Equal(t, "45m", formatDuration(45*time.Minute))
	assert.Equal(t, "2h05m", formatDuration(2*time.Hour+5*time.Minute))
}

func TestRenderDay(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := day.Add(9 * time.Hour)
	slots := []model.Slot{
		{ID: "s1", StartTime: day.Add(8 * time.Hour), EndTime: &end, Category: model.Commute},
		{ID: "s2", StartTime: end, Category: model.Work, CategoryWasSetByUser: true, SmartGuessID: "g1"},
	}

	out := renderDay(day, slots, time.UTC, day.Add(10*time.Hour))
	assert.Contains(t, out, "2024-03-05")
	assert.Contains(t, out, "commute")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "[user,guess]")
	assert.Contains(t, out, "1h00m")

	assert.Contains(t, renderDay(day, nil, time.UTC, day), "no slots")
}

func TestRenderStats(t *testing.T) {
	st := &store.Stats{
		DBPath:         "/tmp/timeslots.db",
		DBSizeBytes:    3 << 20,
		InstalledAt:    time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
		PendingFixes:   4,
		PendingSamples: 1,
		TotalSlots:     3,
		UserSetSlots:   1,
		Categories: []store.CategoryStats{
			{Category: "work", Count: 2},
			{Category: "food", Count: 1},
		},
	}

	out := renderStats(st, time.UTC)
	assert.Contains(t, out, "/tmp/timeslots.db")
	assert.Contains(t, out, "2024-01-05")
	assert.Contains(t, out, "3.0 MiB")
	assert.Contains(t, out, "4 fixes, 1 samples")
	assert.Contains(t, out, "3 (1 set by user)")
	assert.Contains(t, out, strings.Repeat("■", 20))
	assert.Contains(t, out, strings.Repeat("■", 10))

	empty := renderStats(&store.Stats{}, time.UTC)
	assert.Contains(t, empty, "0 B")
	assert.NotContains(t, empty, "■")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "2.0 GiB", formatBytes(2<<30))
}
