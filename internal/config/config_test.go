package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/timeslots/internal/sink"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, sink.DefaultConfig(), cfg.Sink)
	assert.Equal(t, 3, cfg.Guess.K)
	assert.Equal(t, 720*time.Hour, cfg.Guess.Retention)
	assert.Equal(t, time.Local, cfg.Zone)
	assert.True(t, strings.HasSuffix(cfg.DBPath, filepath.Join(".timeslots", "timeslots.db")))
	assert.False(t, strings.HasPrefix(cfg.DBPath, "~"))
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
db: /tmp/slots.db
timezone: Europe/Berlin
pipe:
  min_interval: 3m
guess:
  k: 5
  distance_m: 250
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/slots.db", cfg.DBPath)
	assert.Equal(t, "Europe/Berlin", cfg.Zone.String())
	assert.Equal(t, 3*time.Minute, cfg.Sink.Pipe.MinInterval)
	assert.Equal(t, 8*time.Minute, cfg.Sink.Pipe.MinCommute)
	assert.Equal(t, 5, cfg.Guess.K)
	assert.Equal(t, 250.0, cfg.Guess.Distance)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"pipe.min_interval", "0s"},
		{"location.commute_speed_mps", -1},
		{"guess.k", 0},
		{"guess.max_strikes", 0},
		{"timezone", "Mars/Olympus_Mons"},
		{"db", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TIMESLOTS_TEST_DIR", "/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "a.db"), ExpandPath("~/a.db"))
	assert.Equal(t, "/data/a.db", ExpandPath("$TIMESLOTS_TEST_DIR/a.db"))
}
