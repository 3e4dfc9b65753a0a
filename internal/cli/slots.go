package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show the slots of a day",
		Run:   runSlots,
	}

	cmd.Flags().String("date", "", "Day to show, YYYY-MM-DD (default: today)")

	RootCmd.AddCommand(cmd)
}

func runSlots(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")

	day := time.Now().In(cfg.Zone)
	if dateStr != "" {
		d, err := time.ParseInLocation("2006-01-02", dateStr, cfg.Zone)
		if err != nil {
			exitErr("parse date", err)
		}
		day = d
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	slots, err := s.SlotsForDay(cmd.Context(), day)
	if err != nil {
		exitErr("slots", err)
	}

	if textOutput() {
		fmt.Print(renderDay(day, slots, cfg.Zone, time.Now()))
		return
	}

	b, _ := json.MarshalIndent(slots, "", "  ")
	fmt.Println(string(b))
}
