package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

const (
	settingInstallDate  = "install_date"
	settingLastLocation = "last_location"
)

func (s *SQLiteStore) getSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) setSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// LastLocation returns the last fix the location pump consumed, or nil.
func (s *SQLiteStore) LastLocation(ctx context.Context) (*model.Location, error) {
	raw, ok, err := s.getSetting(ctx, settingLastLocation)
	if err != nil || !ok {
		return nil, err
	}
	var loc model.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, fmt.Errorf("decode last location: %w", err)
	}
	return &loc, nil
}

// SetLastLocation remembers the last fix for the next run.
func (s *SQLiteStore) SetLastLocation(ctx context.Context, loc model.Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.setSetting(ctx, settingLastLocation, string(raw))
}

// InstallDate returns when the database was first created.
func (s *SQLiteStore) InstallDate(ctx context.Context) (time.Time, error) {
	raw, ok, err := s.getSetting(ctx, settingInstallDate)
	if err != nil || !ok {
		return time.Time{}, err
	}
	return parseTime(raw), nil
}

// SetInstallDate overrides the install date.
func (s *SQLiteStore) SetInstallDate(ctx context.Context, t time.Time) error {
	return s.setSetting(ctx, settingInstallDate, formatTime(t))
}
