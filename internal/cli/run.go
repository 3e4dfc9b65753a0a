package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline over the event backlog",
		Long:  "Decompose, fuse and clean the pending fixes and samples, then persist the resulting slots.",
		Run:   runRun,
	}

	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	report, err := newPipeline(s).Run(cmd.Context())
	if err != nil {
		exitErr("run", err)
	}

	lines := report.Lines(cfg.Zone)
	for _, line := range lines {
		slog.Info("finalized", "interval", line)
	}

	if textOutput() {
		for _, line := range lines {
			fmt.Println(line)
		}
		fmt.Printf("created %d, updated %d, skipped %d, failed %d, purged %d\n",
			report.Created, report.Updated, report.Skipped, report.Failed, report.Purged)
		return
	}

	b, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(b))
}
