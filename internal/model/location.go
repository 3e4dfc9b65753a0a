package model

import "time"

// Location is a single positional observation.
type Location struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Accuracy  float64   `json:"accuracy"`        // horizontal radius in meters
	Speed     float64   `json:"speed,omitempty"` // reported speed in m/s, negative when unknown
	Timestamp time.Time `json:"timestamp"`
}

// Fix is a raw positional event waiting in the backlog.
type Fix struct {
	ID string `json:"id"`
	Location
}

// SampleKind tags an activity sample.
type SampleKind string

const (
	SampleWalking SampleKind = "walking" // distance walked or run, meters
	SampleCycling SampleKind = "cycling" // distance cycled, meters
	SampleSleep   SampleKind = "sleep"
)

// ValidSampleKinds are the accepted activity sample kinds.
var ValidSampleKinds = map[SampleKind]bool{
	SampleWalking: true,
	SampleCycling: true,
	SampleSleep:   true,
}

// Sample is a raw activity event waiting in the backlog.
type Sample struct {
	ID    string     `json:"id"`
	Kind  SampleKind `json:"kind"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Value float64    `json:"value"`
}

// Duration returns the sample's span.
func (s Sample) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
