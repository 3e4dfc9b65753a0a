package store

import (
	"context"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

// maxTime bounds open-ended exports.
var maxTime = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// ExportSlots returns every slot starting at or after from, oldest first. A
// zero from exports everything.
func (s *SQLiteStore) ExportSlots(ctx context.Context, from time.Time) ([]model.Slot, error) {
	return s.ListSlots(ctx, from, maxTime)
}

func categoryName(c int) string {
	return model.Category(c).String()
}
