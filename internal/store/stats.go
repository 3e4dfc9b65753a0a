package store

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string          `json:"db_path"`
	DBSizeBytes    int64           `json:"db_size_bytes"`
	InstalledAt    time.Time       `json:"installed_at"`
	PendingFixes   int             `json:"pending_fixes"`
	PendingSamples int             `json:"pending_samples"`
	TotalSlots     int             `json:"total_slots"`
	UserSetSlots   int             `json:"user_set_slots"`
	SmartGuesses   int             `json:"smart_guesses"`
	Categories     []CategoryStats `json:"categories"`
}

// CategoryStats holds per-category slot counts.
type CategoryStats struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}
	st.InstalledAt, _ = s.InstallDate(ctx)

	counts := []struct {
		name  string
		query string
		dest  *int
	}{
		{"pending fixes", `SELECT COUNT(*) FROM location_fixes`, &st.PendingFixes},
		{"pending samples", `SELECT COUNT(*) FROM activity_samples`, &st.PendingSamples},
		{"slots", `SELECT COUNT(*) FROM slots`, &st.TotalSlots},
		{"user-set slots", `SELECT COUNT(*) FROM slots WHERE set_by_user = 1`, &st.UserSetSlots},
		{"smart guesses", `SELECT COUNT(*) FROM smart_guesses`, &st.SmartGuesses},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return st, fmt.Errorf("count %s: %w", c.name, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS cnt
		FROM slots GROUP BY category ORDER BY cnt DESC, category`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cat, cnt int
		if err := rows.Scan(&cat, &cnt); err != nil {
			return st, err
		}
		st.Categories = append(st.Categories, CategoryStats{Category: categoryName(cat), Count: cnt})
	}
	return st, rows.Err()
}
