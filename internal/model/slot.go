package model

import "time"

// Slot is a finalized, persisted interval of the timeline.
type Slot struct {
	ID                   string     `json:"id"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	Category             Category   `json:"category"`
	CategoryWasSetByUser bool       `json:"category_was_set_by_user"`
	Location             *Location  `json:"location,omitempty"`
	SmartGuessID         string     `json:"smart_guess_id,omitempty"`
}

// Open reports whether the slot has not been closed yet.
func (s Slot) Open() bool {
	return s.EndTime == nil
}
