package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/timeslots/internal/model"
)

const guessColumns = `id, category, lat, lon, observed_at, last_used, error_count`

// InsertGuess stores a new smart guess and returns it with its id.
func (s *SQLiteStore) InsertGuess(ctx context.Context, g model.SmartGuess) (model.SmartGuess, error) {
	g.ID = s.newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO smart_guesses (`+guessColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, int(g.Category), g.Location.Lat, g.Location.Lon,
		formatTime(g.Location.Timestamp), formatTime(g.LastUsed), g.ErrorCount)
	if err != nil {
		return model.SmartGuess{}, fmt.Errorf("insert guess: %w", err)
	}
	return g, nil
}

// GetGuess returns a smart guess by id.
func (s *SQLiteStore) GetGuess(ctx context.Context, id string) (model.SmartGuess, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+guessColumns+` FROM smart_guesses WHERE id = ?`, id)
	g, err := scanGuess(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SmartGuess{}, fmt.Errorf("smart guess %s: %w", id, ErrNotFound)
	}
	return g, err
}

// UpdateGuess writes back a guess's usage counters.
func (s *SQLiteStore) UpdateGuess(ctx context.Context, g model.SmartGuess) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE smart_guesses SET category = ?, last_used = ?, error_count = ? WHERE id = ?`,
		int(g.Category), formatTime(g.LastUsed), g.ErrorCount, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("smart guess %s: %w", g.ID, ErrNotFound)
	}
	return nil
}

// DeleteGuess removes a smart guess. Slots keep their dangling reference.
func (s *SQLiteStore) DeleteGuess(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM smart_guesses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("smart guess %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListGuesses returns every smart guess, most recently used first.
func (s *SQLiteStore) ListGuesses(ctx context.Context) ([]model.SmartGuess, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+guessColumns+` FROM smart_guesses ORDER BY last_used DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guesses []model.SmartGuess
	for rows.Next() {
		g, err := scanGuess(rows)
		if err != nil {
			return nil, err
		}
		guesses = append(guesses, g)
	}
	return guesses, rows.Err()
}

// DeleteGuessesUnusedSince removes guesses last used before t.
func (s *SQLiteStore) DeleteGuessesUnusedSince(ctx context.Context, t time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM smart_guesses WHERE last_used < ?`, formatTime(t))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanGuess(row scanner) (model.SmartGuess, error) {
	var g model.SmartGuess
	var cat int
	var observed, lastUsed string
	err := row.Scan(&g.ID, &cat, &g.Location.Lat, &g.Location.Lon, &observed, &lastUsed, &g.ErrorCount)
	if err != nil {
		return g, err
	}
	g.Category = model.Category(cat)
	g.Location.Speed = -1
	g.Location.Timestamp = parseTime(observed)
	g.LastUsed = parseTime(lastUsed)
	return g, nil
}
