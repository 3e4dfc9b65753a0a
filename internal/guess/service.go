package guess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rcliao/timeslots/internal/model"
	"github.com/rcliao/timeslots/internal/store"
)

// Store persists smart guesses.
type Store interface {
	// InsertGuess stores a new guess and returns it with its assigned id.
	InsertGuess(ctx context.Context, g model.SmartGuess) (model.SmartGuess, error)

	// GetGuess returns store.ErrNotFound (possibly wrapped) for a missing id.
	GetGuess(ctx context.Context, id string) (model.SmartGuess, error)

	UpdateGuess(ctx context.Context, g model.SmartGuess) error
	DeleteGuess(ctx context.Context, id string) error
	ListGuesses(ctx context.Context) ([]model.SmartGuess, error)

	// DeleteGuessesUnusedSince removes guesses last used before t.
	DeleteGuessesUnusedSince(ctx context.Context, t time.Time) (int, error)
}

// Service applies usage feedback to stored guesses.
type Service struct {
	store  Store
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a Service. A nil logger uses slog.Default.
func NewService(st Store, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, cfg: cfg, now: time.Now, logger: logger}
}

// WithClock overrides the time source, for tests and replays.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Add records a confirmed category at loc.
func (s *Service) Add(ctx context.Context, cat model.Category, loc model.Location) (model.SmartGuess, error) {
	g, err := s.store.InsertGuess(ctx, model.SmartGuess{
		Category: cat,
		Location: loc,
		LastUsed: s.now(),
	})
	if err != nil {
		return model.SmartGuess{}, fmt.Errorf("add guess: %w", err)
	}
	s.logger.Debug("smart guess added", "id", g.ID, "category", cat)
	return g, nil
}

// Strike records that a guess produced a wrong category. The guess is deleted
// once its error count reaches the configured limit. Unknown ids are logged
// and ignored.
func (s *Service) Strike(ctx context.Context, id string) error {
	g, err := s.store.GetGuess(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("strike on missing smart guess", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("strike guess: %w", err)
	}

	if g.ErrorCount+1 >= s.cfg.MaxStrikes {
		if err := s.store.DeleteGuess(ctx, id); err != nil {
			return fmt.Errorf("delete guess: %w", err)
		}
		s.logger.Info("smart guess purged after strikes", "id", id, "strikes", g.ErrorCount+1)
		return nil
	}

	g.ErrorCount++
	if err := s.store.UpdateGuess(ctx, g); err != nil {
		return fmt.Errorf("strike guess: %w", err)
	}
	return nil
}

// MarkUsed refreshes a guess's last use to at. It never moves backwards.
// Unknown ids are logged and ignored.
func (s *Service) MarkUsed(ctx context.Context, id string, at time.Time) error {
	g, err := s.store.GetGuess(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("mark used on missing smart guess", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark guess used: %w", err)
	}
	if at.Before(g.LastUsed) {
		return nil
	}
	g.LastUsed = at
	if err := s.store.UpdateGuess(ctx, g); err != nil {
		return fmt.Errorf("mark guess used: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes guesses last used before date. Nothing is purged
// when date does not fall after installed.
func (s *Service) PurgeOlderThan(ctx context.Context, date, installed time.Time) (int, error) {
	if !installed.IsZero() && !date.After(installed) {
		return 0, nil
	}
	n, err := s.store.DeleteGuessesUnusedSince(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("purge guesses: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged stale smart guesses", "count", n, "before", date)
	}
	return n, nil
}

// PurgeExpired applies the configured retention relative to now.
func (s *Service) PurgeExpired(ctx context.Context, installed time.Time) (int, error) {
	return s.PurgeOlderThan(ctx, s.now().Add(-s.cfg.Retention), installed)
}

// Snapshot loads every stored guess into a Predictor.
func (s *Service) Snapshot(ctx context.Context) (*Predictor, error) {
	guesses, err := s.store.ListGuesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list guesses: %w", err)
	}
	return NewPredictor(guesses, s.cfg), nil
}

// Predict is a one-off prediction over the current store contents.
func (s *Service) Predict(ctx context.Context, loc model.Location) (model.SmartGuess, bool, error) {
	p, err := s.Snapshot(ctx)
	if err != nil {
		return model.SmartGuess{}, false, err
	}
	g, ok := p.Predict(loc)
	return g, ok, nil
}
