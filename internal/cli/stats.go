package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/timeslots/internal/model"
	"github.com/rcliao/timeslots/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics and slot counts per category",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}

	if textOutput() {
		fmt.Print(renderStats(stats, cfg.Zone))
		return
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}

// renderStats draws the backlog and slot totals followed by a bar per category.
func renderStats(st *store.Stats, zone *time.Location) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("timeslots " + st.DBPath))
	sb.WriteString("\n")

	row := func(label, value string) {
		fmt.Fprintf(&sb, "  %s %s\n", timeStyle.Width(16).Render(label), value)
	}
	if !st.InstalledAt.IsZero() {
		row("installed", st.InstalledAt.In(zone).Format("2006-01-02"))
	}
	row("size", formatBytes(st.DBSizeBytes))
	row("pending events", fmt.Sprintf("%d fixes, %d samples", st.PendingFixes, st.PendingSamples))
	row("slots", fmt.Sprintf("%d (%d set by user)", st.TotalSlots, st.UserSetSlots))
	row("smart guesses", fmt.Sprintf("%d", st.SmartGuesses))

	if len(st.Categories) == 0 {
		return sb.String()
	}
	sb.WriteString("\n")

	most := st.Categories[0].Count
	for _, c := range st.Categories {
		style := mutedStyle
		if cat, err := model.ParseCategory(c.Category); err == nil {
			style = categoryStyle(cat)
		}
		width := 1
		if most > 0 {
			width = max(1, c.Count*20/most)
		}
		fmt.Fprintf(&sb, "  %s %s %s\n",
			style.Width(10).Render(c.Category),
			style.Render(strings.Repeat("■", width)),
			mutedStyle.Render(fmt.Sprintf("%d", c.Count)),
		)
	}
	return sb.String()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
