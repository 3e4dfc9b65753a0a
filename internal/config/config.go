// Package config loads the typed configuration of every pipeline stage.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezone names resolve without system zoneinfo

	"github.com/spf13/viper"

	"github.com/rcliao/timeslots/internal/guess"
	"github.com/rcliao/timeslots/internal/pipe"
	"github.com/rcliao/timeslots/internal/pump"
	"github.com/rcliao/timeslots/internal/sink"
)

// EnvPrefix prefixes every environment override, e.g. TIMESLOTS_DB.
const EnvPrefix = "TIMESLOTS"

// Config holds all timeslots configuration.
type Config struct {
	DBPath string
	Zone   *time.Location
	Sink   sink.Config
	Guess  guess.Config
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	loc := pump.DefaultLocationConfig()
	act := pump.DefaultActivityConfig()
	pc := pipe.DefaultConfig()
	gc := guess.DefaultConfig()

	v.SetDefault("db", "~/.timeslots/timeslots.db")
	v.SetDefault("timezone", "")

	v.SetDefault("location.significant_distance_m", loc.SignificantDistance)
	v.SetDefault("location.commute_speed_mps", loc.CommuteSpeed)
	v.SetDefault("location.idle_threshold", loc.IdleThreshold)

	v.SetDefault("activity.commute_speed_mps", act.CommuteSpeed)
	v.SetDefault("activity.group_gap", act.GroupGap)
	v.SetDefault("activity.min_unknown", act.MinUnknown)

	v.SetDefault("pipe.min_interval", pc.MinInterval)
	v.SetDefault("pipe.min_commute", pc.MinCommute)

	v.SetDefault("guess.distance_m", gc.Distance)
	v.SetDefault("guess.time_window", gc.TimeWindow)
	v.SetDefault("guess.k", gc.K)
	v.SetDefault("guess.max_strikes", gc.MaxStrikes)
	v.SetDefault("guess.retention", gc.Retention)
}

// Load builds a validated Config from v. Defaults must already be set.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DBPath: ExpandPath(v.GetString("db")),
		Zone:   time.Local,
		Sink: sink.Config{
			Location: pump.LocationConfig{
				SignificantDistance: v.GetFloat64("location.significant_distance_m"),
				CommuteSpeed:        v.GetFloat64("location.commute_speed_mps"),
				IdleThreshold:       v.GetDuration("location.idle_threshold"),
			},
			Activity: pump.ActivityConfig{
				CommuteSpeed: v.GetFloat64("activity.commute_speed_mps"),
				GroupGap:     v.GetDuration("activity.group_gap"),
				MinUnknown:   v.GetDuration("activity.min_unknown"),
			},
			Pipe: pipe.Config{
				MinInterval: v.GetDuration("pipe.min_interval"),
				MinCommute:  v.GetDuration("pipe.min_commute"),
			},
		},
		Guess: guess.Config{
			Distance:   v.GetFloat64("guess.distance_m"),
			TimeWindow: v.GetDuration("guess.time_window"),
			K:          v.GetInt("guess.k"),
			MaxStrikes: v.GetInt("guess.max_strikes"),
			Retention:  v.GetDuration("guess.retention"),
		},
	}

	if name := v.GetString("timezone"); name != "" {
		zone, err := time.LoadLocation(name)
		if err != nil {
			return Config{}, fmt.Errorf("timezone %q: %w", name, err)
		}
		cfg.Zone = zone
	}

	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("db path is empty")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	floats := []struct {
		key string
		val float64
	}{
		{"location.significant_distance_m", c.Sink.Location.SignificantDistance},
		{"location.commute_speed_mps", c.Sink.Location.CommuteSpeed},
		{"activity.commute_speed_mps", c.Sink.Activity.CommuteSpeed},
		{"guess.distance_m", c.Guess.Distance},
	}
	for _, f := range floats {
		if f.val <= 0 {
			return fmt.Errorf("%s must be positive, got %v", f.key, f.val)
		}
	}

	durations := []struct {
		key string
		val time.Duration
	}{
		{"location.idle_threshold", c.Sink.Location.IdleThreshold},
		{"activity.group_gap", c.Sink.Activity.GroupGap},
		{"activity.min_unknown", c.Sink.Activity.MinUnknown},
		{"pipe.min_interval", c.Sink.Pipe.MinInterval},
		{"pipe.min_commute", c.Sink.Pipe.MinCommute},
		{"guess.time_window", c.Guess.TimeWindow},
		{"guess.retention", c.Guess.Retention},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.val)
		}
	}

	if c.Guess.K <= 0 {
		return fmt.Errorf("guess.k must be positive, got %d", c.Guess.K)
	}
	if c.Guess.MaxStrikes <= 0 {
		return fmt.Errorf("guess.max_strikes must be positive, got %d", c.Guess.MaxStrikes)
	}
	return nil
}
