// Package store provides the SQLite-backed collaborators of the timeline
// pipeline: the raw event backlog, finalized slots, smart guesses and settings.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

var (
	// ErrNotFound is returned when a slot or smart guess id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSlot is returned when a slot would not have a positive duration.
	ErrInvalidSlot = errors.New("invalid slot")
)

// SlotParams holds parameters for creating a slot.
type SlotParams struct {
	Start        time.Time
	Category     model.Category
	Location     *model.Location
	SmartGuessID string
	SetByUser    bool
}

// EventSource is the raw event backlog.
type EventSource interface {
	ListFixes(ctx context.Context) ([]model.Fix, error)
	ListSamples(ctx context.Context) ([]model.Sample, error)
	ClearEvents(ctx context.Context) error
}

// SlotStore persists finalized slots.
type SlotStore interface {
	// LastSlot returns the latest slot, or nil when none exists.
	LastSlot(ctx context.Context) (*model.Slot, error)

	SlotsForDay(ctx context.Context, day time.Time) ([]model.Slot, error)
	GetSlot(ctx context.Context, id string) (model.Slot, error)

	// CreateSlot closes the previous slot at p.Start, capped at the midnight
	// following its start, and creates the new slot, atomically.
	CreateSlot(ctx context.Context, p SlotParams) (model.Slot, error)

	CloseSlot(ctx context.Context, id string, end time.Time) error
	UpdateSlotCategory(ctx context.Context, id string, cat model.Category, smartGuessID string, setByUser bool) error
}

// Settings holds state carried across pipeline runs.
type Settings interface {
	LastLocation(ctx context.Context) (*model.Location, error)
	SetLastLocation(ctx context.Context, loc model.Location) error
	InstallDate(ctx context.Context) (time.Time, error)
}
