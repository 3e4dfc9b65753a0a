// Package sink runs the timeline pipeline end to end and commits its result:
// pumps, fusion, the cleanup chain, then slot persistence and smart guess
// feedback.
package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/timeslots/internal/fuse"
	"github.com/rcliao/timeslots/internal/guess"
	"github.com/rcliao/timeslots/internal/model"
	"github.com/rcliao/timeslots/internal/pipe"
	"github.com/rcliao/timeslots/internal/pump"
	"github.com/rcliao/timeslots/internal/store"
)

// Config groups the thresholds of every stage.
type Config struct {
	Location pump.LocationConfig
	Activity pump.ActivityConfig
	Pipe     pipe.Config
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		Location: pump.DefaultLocationConfig(),
		Activity: pump.DefaultActivityConfig(),
		Pipe:     pipe.DefaultConfig(),
	}
}

// Deps are the collaborators a Pipeline commits through.
type Deps struct {
	Events   store.EventSource
	Slots    store.SlotStore
	Settings store.Settings
	Guesses  *guess.Service
	Logger   *slog.Logger
}

// Pipeline owns the slot and smart guess stores for the duration of a run.
// Runs must not overlap.
type Pipeline struct {
	events   store.EventSource
	slots    store.SlotStore
	settings store.Settings
	guesses  *guess.Service
	cfg      Config
	zone     *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Pipeline. A nil logger uses slog.Default.
func New(deps Deps, cfg Config) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		events:   deps.Events,
		slots:    deps.Slots,
		settings: deps.Settings,
		guesses:  deps.Guesses,
		cfg:      cfg,
		zone:     time.Local,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the time source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// WithZone sets the zone calendar days are computed in.
func (p *Pipeline) WithZone(zone *time.Location) *Pipeline {
	if zone != nil {
		p.zone = zone
	}
	return p
}

// Report summarizes one run.
type Report struct {
	Intervals []model.Interval `json:"intervals"`
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Skipped   int              `json:"skipped"`
	Failed    int              `json:"failed"`
	Purged    int              `json:"purged"`
}

// Lines renders the finalized sequence as "start category" lines.
func (r *Report) Lines(zone *time.Location) []string {
	lines := make([]string, 0, len(r.Intervals))
	for _, iv := range r.Intervals {
		lines = append(lines, fmt.Sprintf("%s %s", iv.Start.In(zone).Format("2006-01-02 15:04"), iv.Category))
	}
	return lines
}

// inputs is the immutable snapshot a run works on.
type inputs struct {
	fixes        []model.Location
	samples      []model.Sample
	lastFix      *model.Location
	last         *model.Slot
	hasSlotToday bool
	installed    time.Time
}

func (p *Pipeline) load(ctx context.Context, now time.Time) (inputs, error) {
	var in inputs
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fixes, err := p.events.ListFixes(ctx)
		if err != nil {
			return fmt.Errorf("list fixes: %w", err)
		}
		for _, f := range fixes {
			in.fixes = append(in.fixes, f.Location)
		}
		return nil
	})
	g.Go(func() error {
		samples, err := p.events.ListSamples(ctx)
		if err != nil {
			return fmt.Errorf("list samples: %w", err)
		}
		in.samples = samples
		return nil
	})
	g.Go(func() error {
		last, err := p.slots.LastSlot(ctx)
		if err != nil {
			return fmt.Errorf("last slot: %w", err)
		}
		in.last = last
		return nil
	})
	g.Go(func() error {
		today, err := p.slots.SlotsForDay(ctx, now)
		if err != nil {
			return fmt.Errorf("slots for today: %w", err)
		}
		in.hasSlotToday = len(today) > 0
		return nil
	})
	g.Go(func() error {
		loc, err := p.settings.LastLocation(ctx)
		if err != nil {
			return fmt.Errorf("last location: %w", err)
		}
		in.lastFix = loc
		return nil
	})
	g.Go(func() error {
		installed, err := p.settings.InstallDate(ctx)
		if err != nil {
			return fmt.Errorf("install date: %w", err)
		}
		in.installed = installed
		return nil
	})

	return in, g.Wait()
}

// Run executes one pipeline pass and persists its result. Failures to
// persist a single interval are logged and leave a gap; only failures to
// read the inputs or to clear the backlog fail the run.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	now := p.now()

	in, err := p.load(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	predictor, err := p.guesses.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load smart guesses: %w", err)
	}
	p.logger.Debug("pipeline inputs",
		"fixes", len(in.fixes), "samples", len(in.samples), "guesses", predictor.Len())

	var located pump.LocationOutput
	var active []model.Interval
	var g errgroup.Group
	g.Go(func() error {
		located = pump.Locations(pump.LocationInput{
			Fixes:    in.fixes,
			LastFix:  in.lastFix,
			LastSlot: in.last,
			Now:      now,
		}, p.cfg.Location, predictor)
		return nil
	})
	g.Go(func() error {
		active = pump.Activities(in.samples, p.cfg.Activity)
		return nil
	})
	_ = g.Wait()

	fused := fuse.Fuse(located.Intervals, active)
	if in.last != nil {
		fused = clip(fused, in.last.StartTime)
	}

	env := pipe.Env{
		Now:          now,
		Zone:         p.zone,
		HasSlotToday: in.hasSlotToday,
		HasAnySlot:   in.last != nil,
	}
	report := &Report{Intervals: pipe.Chain(fused, env, p.cfg.Pipe)}

	p.persist(ctx, report, in.last)

	if located.LastFix != nil {
		if err := p.settings.SetLastLocation(ctx, *located.LastFix); err != nil {
			p.logger.Warn("failed to save last location", "error", err)
		}
	}
	if err := p.events.ClearEvents(ctx); err != nil {
		return report, fmt.Errorf("clear events: %w", err)
	}

	report.Purged, err = p.guesses.PurgeExpired(ctx, in.installed)
	if err != nil {
		p.logger.Warn("failed to purge smart guesses", "error", err)
	}

	p.logger.Info("pipeline run complete",
		"intervals", len(report.Intervals), "created", report.Created,
		"updated", report.Updated, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// clip drops intervals that end by floor and trims one straddling it to
// start at floor. Time before floor is already covered by persisted slots.
func clip(seq []model.Interval, floor time.Time) []model.Interval {
	out := make([]model.Interval, 0, len(seq))
	for _, iv := range seq {
		if !iv.Open() && !iv.End.After(floor) {
			continue
		}
		if iv.Start.Before(floor) {
			iv.Start = floor
		}
		out = append(out, iv)
	}
	return out
}

// continues reports whether iv merely extends the open slot last: same
// category and guess, and on the same local day.
func (p *Pipeline) continues(last *model.Slot, iv model.Interval) bool {
	if last == nil || !last.Open() {
		return false
	}
	if last.Category != iv.Category || last.SmartGuessID != iv.GuessID() {
		return false
	}
	start := last.StartTime.In(p.zone)
	midnight := time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, p.zone)
	return iv.Start.Before(midnight)
}

func (p *Pipeline) persist(ctx context.Context, report *Report, last *model.Slot) {
	seq := report.Intervals
	for i, iv := range seq {
		gapAfter := !iv.Open() && (i+1 == len(seq) || seq[i+1].Start.After(iv.End))

		if p.continues(last, iv) {
			report.Skipped++
			if gapAfter {
				p.close(ctx, last, iv.End)
			}
			continue
		}

		if last != nil && iv.Start.Equal(last.StartTime) {
			if p.restate(ctx, last, iv) {
				report.Updated++
			} else {
				report.Skipped++
			}
			if gapAfter && last.Open() {
				p.close(ctx, last, iv.End)
			}
			continue
		}

		slot, err := p.slots.CreateSlot(ctx, store.SlotParams{
			Start:        iv.Start,
			Category:     iv.Category,
			Location:     iv.Location,
			SmartGuessID: iv.GuessID(),
		})
		if err != nil {
			report.Failed++
			if errors.Is(err, store.ErrInvalidSlot) {
				p.logger.Warn("rejected slot", "start", iv.Start, "category", iv.Category, "error", err)
			} else {
				p.logger.Error("failed to persist slot", "start", iv.Start, "category", iv.Category, "error", err)
			}
			continue
		}
		report.Created++
		last = &slot

		p.markUsed(ctx, iv)
		if gapAfter {
			p.close(ctx, last, iv.End)
		}
	}
}

// restate re-categorizes the open slot last from evidence covering it from its
// start. Unknown evidence and categories the user chose leave it untouched.
func (p *Pipeline) restate(ctx context.Context, last *model.Slot, iv model.Interval) bool {
	if iv.Category == model.Unknown || last.CategoryWasSetByUser || !last.Open() {
		return false
	}
	if err := p.slots.UpdateSlotCategory(ctx, last.ID, iv.Category, iv.GuessID(), false); err != nil {
		p.logger.Warn("failed to re-categorize slot", "id", last.ID, "category", iv.Category, "error", err)
		return false
	}
	last.Category = iv.Category
	last.SmartGuessID = iv.GuessID()
	p.markUsed(ctx, iv)
	return true
}

func (p *Pipeline) markUsed(ctx context.Context, iv model.Interval) {
	id := iv.GuessID()
	if id == "" {
		return
	}
	if err := p.guesses.MarkUsed(ctx, id, iv.Start); err != nil {
		p.logger.Warn("failed to mark smart guess used", "id", id, "error", err)
	}
}

func (p *Pipeline) close(ctx context.Context, slot *model.Slot, end time.Time) {
	if err := p.slots.CloseSlot(ctx, slot.ID, end); err != nil {
		p.logger.Warn("failed to close slot", "id", slot.ID, "end", end, "error", err)
		return
	}
	slot.EndTime = &end
}
