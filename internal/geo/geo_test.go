package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/timeslots/internal/model"
)

func TestHaversine(t *testing.T) {
	// ~140m between these two points
	d := Haversine(46.0, 7.0, 46.001, 7.001)
	assert.InDelta(t, 140.0, d, 10.0)

	assert.Zero(t, Haversine(52.5, 13.4, 52.5, 13.4))
}

func TestSpeed(t *testing.T) {
	t0 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	a := model.Location{Lat: 46.0, Lon: 7.0, Timestamp: t0}
	b := model.Location{Lat: 46.001, Lon: 7.001, Timestamp: t0.Add(70 * time.Second)}

	assert.InDelta(t, 2.0, Speed(a, b), 0.2)
	assert.Zero(t, Speed(b, a), "backwards in time has no speed")
	assert.Zero(t, Speed(a, a))
}
