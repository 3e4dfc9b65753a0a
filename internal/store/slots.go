package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

const slotColumns = `id, start_time, end_time, category, set_by_user,
	lat, lon, accuracy, located_at, smart_guess_id`

// LastSlot returns the latest slot, or nil when none exists.
func (s *SQLiteStore) LastSlot(ctx context.Context) (*model.Slot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots ORDER BY start_time DESC LIMIT 1`)
	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetSlot returns a slot by id.
func (s *SQLiteStore) GetSlot(ctx context.Context, id string) (model.Slot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)
	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Slot{}, fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	return slot, err
}

// SlotsForDay returns the slots starting on day's calendar date, in the
// store's zone, ordered by start.
func (s *SQLiteStore) SlotsForDay(ctx context.Context, day time.Time) ([]model.Slot, error) {
	d := day.In(s.zone)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.zone)
	return s.ListSlots(ctx, from, from.AddDate(0, 0, 1))
}

// ListSlots returns slots starting in [from, to), ordered by start.
func (s *SQLiteStore) ListSlots(ctx context.Context, from, to time.Time) ([]model.Slot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM slots
		 WHERE start_time >= ? AND start_time < ?
		 ORDER BY start_time`, formatTime(from), formatTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// midnightAfter returns the first midnight in zone strictly after t.
func midnightAfter(t time.Time, zone *time.Location) time.Time {
	t = t.In(zone)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, zone)
}

// CreateSlot closes the previous slot at p.Start, capped at the midnight
// following its start, then inserts the new slot. Both happen in one
// transaction; a start not after the previous slot's start is rejected with
// ErrInvalidSlot.
func (s *SQLiteStore) CreateSlot(ctx context.Context, p SlotParams) (model.Slot, error) {
	if !p.Category.Valid() {
		return model.Slot{}, fmt.Errorf("category %d: %w", p.Category, ErrInvalidSlot)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Slot{}, err
	}
	defer tx.Rollback()

	prev, err := scanSlot(tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots ORDER BY start_time DESC LIMIT 1`))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return model.Slot{}, fmt.Errorf("load previous slot: %w", err)
	default:
		if !p.Start.After(prev.StartTime) {
			return model.Slot{}, fmt.Errorf("slot at %s does not follow %s: %w",
				p.Start.Format(time.RFC3339), prev.StartTime.Format(time.RFC3339), ErrInvalidSlot)
		}
		if prev.Open() {
			end := p.Start
			if limit := midnightAfter(prev.StartTime, s.zone); limit.Before(end) {
				end = limit
			}
			if _, err := tx.ExecContext(ctx, `UPDATE slots SET end_time = ? WHERE id = ?`,
				formatTime(end), prev.ID); err != nil {
				return model.Slot{}, fmt.Errorf("close previous slot: %w", err)
			}
		}
	}

	slot := model.Slot{
		ID:                   s.newID(),
		StartTime:            p.Start,
		Category:             p.Category,
		CategoryWasSetByUser: p.SetByUser,
		Location:             p.Location,
		SmartGuessID:         p.SmartGuessID,
	}

	var lat, lon, acc *float64
	var locatedAt *string
	if p.Location != nil {
		lat, lon, acc = &p.Location.Lat, &p.Location.Lon, &p.Location.Accuracy
		locatedAt = nullTime(&p.Location.Timestamp)
	}
	var guessID *string
	if p.SmartGuessID != "" {
		guessID = &p.SmartGuessID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO slots (`+slotColumns+`) VALUES (?, ?, NULL, ?, ?, ?, ?, ?, ?, ?)`,
		slot.ID, formatTime(p.Start), int(p.Category), p.SetByUser, lat, lon, acc, locatedAt, guessID)
	if err != nil {
		return model.Slot{}, fmt.Errorf("insert slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Slot{}, err
	}
	return slot, nil
}

// CloseSlot sets the end of a slot.
func (s *SQLiteStore) CloseSlot(ctx context.Context, id string, end time.Time) error {
	slot, err := s.GetSlot(ctx, id)
	if err != nil {
		return err
	}
	if !end.After(slot.StartTime) {
		return fmt.Errorf("end %s not after start: %w", end.Format(time.RFC3339), ErrInvalidSlot)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE slots SET end_time = ? WHERE id = ?`, formatTime(end), id)
	return err
}

// UpdateSlotCategory changes a slot's category and the guess it came from.
func (s *SQLiteStore) UpdateSlotCategory(ctx context.Context, id string, cat model.Category, smartGuessID string, setByUser bool) error {
	if !cat.Valid() {
		return fmt.Errorf("category %d: %w", cat, ErrInvalidSlot)
	}
	var guessID *string
	if smartGuessID != "" {
		guessID = &smartGuessID
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE slots SET category = ?, smart_guess_id = ?, set_by_user = ? WHERE id = ?`,
		int(cat), guessID, setByUser, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanSlot(row scanner) (model.Slot, error) {
	var slot model.Slot
	var start string
	var end, locatedAt, guessID sql.NullString
	var lat, lon, acc sql.NullFloat64
	var cat int

	err := row.Scan(&slot.ID, &start, &end, &cat, &slot.CategoryWasSetByUser,
		&lat, &lon, &acc, &locatedAt, &guessID)
	if err != nil {
		return slot, err
	}

	slot.StartTime = parseTime(start)
	slot.Category = model.Category(cat)
	if end.Valid {
		t := parseTime(end.String)
		slot.EndTime = &t
	}
	if lat.Valid && lon.Valid {
		slot.Location = &model.Location{Lat: lat.Float64, Lon: lon.Float64, Accuracy: acc.Float64, Speed: -1}
		if locatedAt.Valid {
			slot.Location.Timestamp = parseTime(locatedAt.String)
		}
	}
	if guessID.Valid {
		slot.SmartGuessID = guessID.String
	}
	return slot, nil
}
