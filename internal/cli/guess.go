package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/timeslots/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "guess",
		Short: "Inspect and maintain smart guesses",
	}

	predict := &cobra.Command{
		Use:   "predict",
		Short: "Predict the category at a location and time",
		Run:   runGuessPredict,
	}
	predict.Flags().Float64("lat", 0, "Latitude (required)")
	predict.Flags().Float64("lon", 0, "Longitude (required)")
	predict.Flags().String("at", "", "Query time (default: now)")
	predict.MarkFlagRequired("lat")
	predict.MarkFlagRequired("lon")

	list := &cobra.Command{
		Use:   "list",
		Short: "List smart guesses, most recently used first",
		Run:   runGuessList,
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete smart guesses not used since a date",
		Long:  "Delete smart guesses not used since a date. Nothing before the install date is purged.",
		Run:   runGuessPurge,
	}
	purge.Flags().String("before", "", "Cutoff (default: now minus guess.retention)")

	cmd.AddCommand(predict, list, purge)
	RootCmd.AddCommand(cmd)
}

func runGuessPredict(cmd *cobra.Command, args []string) {
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	atStr, _ := cmd.Flags().GetString("at")

	at, err := parseWhen(atStr)
	if err != nil {
		exitErr("predict", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	g, ok, err := newGuessService(s).Predict(cmd.Context(), model.Location{Lat: lat, Lon: lon, Speed: -1, Timestamp: at})
	if err != nil {
		exitErr("predict", err)
	}
	if !ok {
		fmt.Println(`{"ok":false}`)
		return
	}

	b, _ := json.Marshal(struct {
		OK       bool             `json:"ok"`
		Category model.Category   `json:"category"`
		Guess    model.SmartGuess `json:"guess"`
	}{true, g.Category, g})
	fmt.Println(string(b))
}

func runGuessList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	guesses, err := s.ListGuesses(cmd.Context())
	if err != nil {
		exitErr("list guesses", err)
	}

	if textOutput() {
		for _, g := range guesses {
			fmt.Printf("%s %-10s %.5f,%.5f used %s strikes %d\n",
				g.ID, g.Category, g.Location.Lat, g.Location.Lon,
				g.LastUsed.In(cfg.Zone).Format("2006-01-02 15:04"), g.ErrorCount)
		}
		return
	}

	b, _ := json.MarshalIndent(guesses, "", "  ")
	fmt.Println(string(b))
}

func runGuessPurge(cmd *cobra.Command, args []string) {
	beforeStr, _ := cmd.Flags().GetString("before")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	installed, err := s.InstallDate(cmd.Context())
	if err != nil {
		exitErr("install date", err)
	}

	svc := newGuessService(s)
	var purged int
	if beforeStr == "" {
		purged, err = svc.PurgeExpired(cmd.Context(), installed)
	} else {
		var before time.Time
		before, err = parseWhen(beforeStr)
		if err != nil {
			exitErr("purge", err)
		}
		purged, err = svc.PurgeOlderThan(cmd.Context(), before, installed)
	}
	if err != nil {
		exitErr("purge", err)
	}

	fmt.Printf(`{"ok":true,"purged":%d}`+"\n", purged)
}
