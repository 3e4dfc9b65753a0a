package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/timeslots/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var categoryColors = map[model.Category]lipgloss.Color{
	model.Unknown:   "241",
	model.Commute:   "33",
	model.Work:      "69",
	model.Food:      "208",
	model.Leisure:   "141",
	model.Family:    "205",
	model.Friends:   "170",
	model.Fitness:   "82",
	model.Hobby:     "178",
	model.School:    "39",
	model.Household: "137",
	model.Sleep:     "60",
	model.Shopping:  "220",
	model.Meeting:   "75",
	model.Movies:    "161",
}

func categoryStyle(c model.Category) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(categoryColors[c])
}

// renderDay draws one line per slot: time range, category, duration and
// markers for user-set and guessed categories.
func renderDay(day time.Time, slots []model.Slot, zone *time.Location, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(day.In(zone).Format("Monday, 2006-01-02")))
	sb.WriteString("\n")

	if len(slots) == 0 {
		sb.WriteString(mutedStyle.Render("  no slots"))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, s := range slots {
		end := now
		endLabel := "now  "
		if s.EndTime != nil {
			end = *s.EndTime
			endLabel = end.In(zone).Format("15:04")
		}

		var marks []string
		if s.CategoryWasSetByUser {
			marks = append(marks, "user")
		}
		if s.SmartGuessID != "" {
			marks = append(marks, "guess")
		}

		line := fmt.Sprintf("  %s %s  %s %s",
			timeStyle.Render(s.StartTime.In(zone).Format("15:04")+"-"+endLabel),
			categoryStyle(s.Category).Width(10).Render(s.Category.String()),
			mutedStyle.Render(formatDuration(end.Sub(s.StartTime))),
			mutedStyle.Render(s.ID),
		)
		if len(marks) > 0 {
			line += " " + markStyle.Render("["+strings.Join(marks, ",")+"]")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
