package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export slots as JSON",
		Long:  "Export slots as newline-delimited JSON, oldest first. Limit to recent slots with --since.",
		Run:   runExport,
	}

	cmd.Flags().String("since", "", "Only slots starting at or after this time")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	sinceStr, _ := cmd.Flags().GetString("since")

	var since time.Time
	if sinceStr != "" {
		t, err := parseWhen(sinceStr)
		if err != nil {
			exitErr("export", err)
		}
		since = t
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	slots, err := s.ExportSlots(cmd.Context(), since)
	if err != nil {
		exitErr("export", err)
	}

	for _, slot := range slots {
		b, _ := json.Marshal(slot)
		fmt.Println(string(b))
	}
}
