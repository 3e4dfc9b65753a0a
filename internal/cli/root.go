// Package cli implements the timeslots CLI commands.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/timeslots/internal/config"
	"github.com/rcliao/timeslots/internal/guess"
	"github.com/rcliao/timeslots/internal/logging"
	"github.com/rcliao/timeslots/internal/sink"
	"github.com/rcliao/timeslots/internal/store"
)

var (
	cfgFile    string
	formatFlag string

	v   = viper.New()
	cfg config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "timeslots",
	Short: "Turn location fixes and activity samples into a categorized timeline",
	Long: `timeslots fuses raw location fixes and activity samples into one
categorized timeline of slots, learning categories from your corrections.
SQLite-backed, single binary.`,
	PersistentPreRunE: initConfig,
	SilenceUsage:      true,
}

func init() {
	config.SetDefaults(v)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.config/timeslots/config.yaml)")
	flags.StringP("db", "d", "", "Database path (default: $TIMESLOTS_DB or ~/.timeslots/timeslots.db)")
	flags.String("timezone", "", "IANA zone calendar days are computed in (default: local)")
	flags.StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console or json")

	_ = v.BindPFlag("db", flags.Lookup("db"))
	_ = v.BindPFlag("timezone", flags.Lookup("timezone"))
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("logging.format", flags.Lookup("log-format"))
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/timeslots", home))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := logging.Init(os.Stderr, v.GetString("logging.level"), v.GetString("logging.format")); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded
	return nil
}

func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	s.SetZone(cfg.Zone)
	return s, nil
}

func newGuessService(s *store.SQLiteStore) *guess.Service {
	return guess.NewService(s, cfg.Guess, nil)
}

func newPipeline(s *store.SQLiteStore) *sink.Pipeline {
	return sink.New(sink.Deps{
		Events:   s,
		Slots:    s,
		Settings: s,
		Guesses:  newGuessService(s),
	}, cfg.Sink).WithZone(cfg.Zone)
}

// parseWhen accepts RFC 3339 or "2006-01-02 15:04" in the configured zone.
// An empty value is now.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, cfg.Zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func textOutput() bool {
	return formatFlag == "text"
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
