package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/timeslots/internal/model"
)

func init() {
	fix := &cobra.Command{
		Use:   "fix",
		Short: "Record a location fix",
		Run:   runFix,
	}
	fix.Flags().Float64("lat", 0, "Latitude (required)")
	fix.Flags().Float64("lon", 0, "Longitude (required)")
	fix.Flags().Float64("accuracy", 0, "Horizontal accuracy in meters")
	fix.Flags().Float64("speed", -1, "Reported speed in m/s, negative when unknown")
	fix.Flags().String("at", "", "Fix time (default: now)")
	fix.MarkFlagRequired("lat")
	fix.MarkFlagRequired("lon")

	sample := &cobra.Command{
		Use:   "sample",
		Short: "Record an activity sample",
		Run:   runSample,
	}
	sample.Flags().StringP("kind", "k", "", "Kind: walking, cycling, sleep (required)")
	sample.Flags().String("start", "", "Sample start (required)")
	sample.Flags().String("end", "", "Sample end (required)")
	sample.Flags().Float64("value", 0, "Distance in meters for walking and cycling")
	sample.MarkFlagRequired("kind")
	sample.MarkFlagRequired("start")
	sample.MarkFlagRequired("end")

	RootCmd.AddCommand(fix, sample)
}

func runFix(cmd *cobra.Command, args []string) {
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	accuracy, _ := cmd.Flags().GetFloat64("accuracy")
	speed, _ := cmd.Flags().GetFloat64("speed")
	atStr, _ := cmd.Flags().GetString("at")

	at, err := parseWhen(atStr)
	if err != nil {
		exitErr("fix", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	fix, err := s.AddFix(cmd.Context(), model.Location{
		Lat: lat, Lon: lon, Accuracy: accuracy, Speed: speed, Timestamp: at,
	})
	if err != nil {
		exitErr("fix", err)
	}

	b, _ := json.Marshal(fix)
	fmt.Println(string(b))
}

func runSample(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	value, _ := cmd.Flags().GetFloat64("value")

	start, err := parseWhen(startStr)
	if err != nil {
		exitErr("sample", err)
	}
	end, err := parseWhen(endStr)
	if err != nil {
		exitErr("sample", err)
	}
	if !end.After(start) {
		exitErr("sample", fmt.Errorf("end must be after start"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sample, err := s.AddSample(cmd.Context(), model.Sample{
		Kind: model.SampleKind(kind), Start: start, End: end, Value: value,
	})
	if err != nil {
		exitErr("sample", err)
	}

	b, _ := json.Marshal(sample)
	fmt.Println(string(b))
}
