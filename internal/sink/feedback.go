package sink

import (
	"context"
	"fmt"

	"github.com/rcliao/timeslots/internal/model"
)

// Reassign records the user's category for a slot and feeds the correction
// back into the smart guesses: a guess that produced a different category is
// struck, and a located slot without a guess teaches a new one.
func (p *Pipeline) Reassign(ctx context.Context, slotID string, cat model.Category) (model.Slot, error) {
	if !cat.Valid() {
		return model.Slot{}, fmt.Errorf("invalid category %d", cat)
	}
	slot, err := p.slots.GetSlot(ctx, slotID)
	if err != nil {
		return model.Slot{}, err
	}

	guessID := slot.SmartGuessID
	switch {
	case guessID != "" && slot.Category != cat:
		if err := p.guesses.Strike(ctx, guessID); err != nil {
			return model.Slot{}, err
		}
		guessID = ""
	case guessID == "" && slot.Location != nil && learnable(cat):
		loc := *slot.Location
		if loc.Timestamp.IsZero() {
			loc.Timestamp = slot.StartTime
		}
		g, err := p.guesses.Add(ctx, cat, loc)
		if err != nil {
			return model.Slot{}, err
		}
		guessID = g.ID
	}

	if err := p.slots.UpdateSlotCategory(ctx, slotID, cat, guessID, true); err != nil {
		return model.Slot{}, err
	}
	p.logger.Info("slot reassigned", "id", slotID, "from", slot.Category, "to", cat)

	slot.Category = cat
	slot.SmartGuessID = guessID
	slot.CategoryWasSetByUser = true
	return slot, nil
}

// learnable reports whether a category describes a place, so a location can
// predict it later.
func learnable(cat model.Category) bool {
	return cat != model.Unknown && cat != model.Commute
}
