package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// eventLine is one imported raw event.
type eventLine struct {
	Type string `json:"type"`

	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Accuracy  float64   `json:"accuracy"`
	Speed     *float64  `json:"speed"`
	Timestamp time.Time `json:"timestamp"`

	Kind  model.SampleKind `json:"kind"`
	Start time.Time        `json:"start"`
	End   time.Time        `json:"end"`
	Value float64          `json:"value"`
}

type eventBatch struct {
	fixes   []model.Location
	samples []model.Sample
}

func (b *eventBatch) add(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var ev eventLine
	if err := json.Unmarshal(raw, &ev); err != nil {
		return err
	}

	switch ev.Type {
	case "fix":
		if ev.Timestamp.IsZero() {
			return fmt.Errorf("fix without timestamp")
		}
		speed := -1.0
		if ev.Speed != nil {
			speed = *ev.Speed
		}
		b.fixes = append(b.fixes, model.Location{
			Lat: ev.Lat, Lon: ev.Lon, Accuracy: ev.Accuracy, Speed: speed, Timestamp: ev.Timestamp,
		})
	case "sample":
		if !model.ValidSampleKinds[ev.Kind] {
			return fmt.Errorf("invalid sample kind %q", ev.Kind)
		}
		b.samples = append(b.samples, model.Sample{Kind: ev.Kind, Start: ev.Start, End: ev.End, Value: ev.Value})
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}
