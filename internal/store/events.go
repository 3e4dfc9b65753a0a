package store

import (
	"context"
	"fmt"

	"github.com/rcliao/timeslots/internal/model"
)

// AddFix appends a location fix to the backlog.
func (s *SQLiteStore) AddFix(ctx context.Context, loc model.Location) (model.Fix, error) {
	fix := model.Fix{ID: s.newID(), Location: loc}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO location_fixes (id, ts, lat, lon, accuracy, speed) VALUES (?, ?, ?, ?, ?, ?)`,
		fix.ID, formatTime(loc.Timestamp), loc.Lat, loc.Lon, loc.Accuracy, loc.Speed)
	if err != nil {
		return model.Fix{}, fmt.Errorf("insert fix: %w", err)
	}
	return fix, nil
}

// AddSample appends an activity sample to the backlog.
func (s *SQLiteStore) AddSample(ctx context.Context, sample model.Sample) (model.Sample, error) {
	if !model.ValidSampleKinds[sample.Kind] {
		return model.Sample{}, fmt.Errorf("invalid sample kind %q", sample.Kind)
	}
	sample.ID = s.newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_samples (id, kind, start_time, end_time, value) VALUES (?, ?, ?, ?, ?)`,
		sample.ID, string(sample.Kind), formatTime(sample.Start), formatTime(sample.End), sample.Value)
	if err != nil {
		return model.Sample{}, fmt.Errorf("insert sample: %w", err)
	}
	return sample, nil
}

// ImportEvents stores fixes and samples in one transaction.
func (s *SQLiteStore) ImportEvents(ctx context.Context, fixes []model.Location, samples []model.Sample) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, loc := range fixes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO location_fixes (id, ts, lat, lon, accuracy, speed) VALUES (?, ?, ?, ?, ?, ?)`,
			s.newID(), formatTime(loc.Timestamp), loc.Lat, loc.Lon, loc.Accuracy, loc.Speed)
		if err != nil {
			return 0, fmt.Errorf("insert fix: %w", err)
		}
		imported++
	}
	for _, sample := range samples {
		if !model.ValidSampleKinds[sample.Kind] {
			return 0, fmt.Errorf("invalid sample kind %q", sample.Kind)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO activity_samples (id, kind, start_time, end_time, value) VALUES (?, ?, ?, ?, ?)`,
			s.newID(), string(sample.Kind), formatTime(sample.Start), formatTime(sample.End), sample.Value)
		if err != nil {
			return 0, fmt.Errorf("insert sample: %w", err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}

// ListFixes returns the backlog of fixes, oldest first.
func (s *SQLiteStore) ListFixes(ctx context.Context) ([]model.Fix, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, lat, lon, accuracy, speed FROM location_fixes ORDER BY ts, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixes []model.Fix
	for rows.Next() {
		var f model.Fix
		var ts string
		if err := rows.Scan(&f.ID, &ts, &f.Lat, &f.Lon, &f.Accuracy, &f.Speed); err != nil {
			return nil, err
		}
		f.Timestamp = parseTime(ts)
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}

// ListSamples returns the backlog of activity samples, oldest first.
func (s *SQLiteStore) ListSamples(ctx context.Context) ([]model.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, start_time, end_time, value FROM activity_samples ORDER BY start_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []model.Sample
	for rows.Next() {
		var sm model.Sample
		var kind, start, end string
		if err := rows.Scan(&sm.ID, &kind, &start, &end, &sm.Value); err != nil {
			return nil, err
		}
		sm.Kind = model.SampleKind(kind)
		sm.Start = parseTime(start)
		sm.End = parseTime(end)
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

// ClearEvents empties the backlog.
func (s *SQLiteStore) ClearEvents(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM location_fixes`); err != nil {
		return fmt.Errorf("clear fixes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_samples`); err != nil {
		return fmt.Errorf("clear samples: %w", err)
	}
	return tx.Commit()
}
