package store

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements every store interface using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	zone *time.Location

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:      db,
		zone:    time.Local,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// SetZone sets the zone calendar days are computed in. Defaults to time.Local.
func (s *SQLiteStore) SetZone(zone *time.Location) {
	if zone != nil {
		s.zone = zone
	}
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS location_fixes (
		id         TEXT PRIMARY KEY,
		ts         TEXT NOT NULL,
		lat        REAL NOT NULL,
		lon        REAL NOT NULL,
		accuracy   REAL NOT NULL DEFAULT 0,
		speed      REAL NOT NULL DEFAULT -1
	);
	CREATE INDEX IF NOT EXISTS idx_fixes_ts ON location_fixes(ts);

	CREATE TABLE IF NOT EXISTS activity_samples (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		value      REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_samples_start ON activity_samples(start_time);

	CREATE TABLE IF NOT EXISTS slots (
		id             TEXT PRIMARY KEY,
		start_time     TEXT NOT NULL,
		end_time       TEXT,
		category       INTEGER NOT NULL,
		set_by_user    INTEGER NOT NULL DEFAULT 0,
		lat            REAL,
		lon            REAL,
		accuracy       REAL,
		located_at     TEXT,
		smart_guess_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_slots_start ON slots(start_time);

	CREATE TABLE IF NOT EXISTS smart_guesses (
		id          TEXT PRIMARY KEY,
		category    INTEGER NOT NULL,
		lat         REAL NOT NULL,
		lon         REAL NOT NULL,
		observed_at TEXT NOT NULL,
		last_used   TEXT NOT NULL,
		error_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_guesses_last_used ON smart_guesses(last_used);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// First open records the install date; later opens keep it.
	_, err := s.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		settingInstallDate, formatTime(time.Now()))
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func nullTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatTime(*t)
	return &v
}
