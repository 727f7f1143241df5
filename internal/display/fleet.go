package display

import (
	"fmt"
	"strings"

	"sarlink/internal/fleet"
	"sarlink/internal/journal"
)

func FormatFleet(robots []fleet.Robot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-10s %-4s %-10s %7s  %-22s %5s  %s\n", "NAME", "TYPE", "STATUS", "BATTERY", "POSITION", "CONF", "TASK"))
	for _, r := range robots {
		pos := fmt.Sprintf("(%.1f, %.1f, %.1f)", r.Position.X, r.Position.Y, r.Position.Z)
		task := r.CurrentTask
		if r.NavGoal != nil {
			task = fmt.Sprintf("%s -> (%.1f, %.1f)", task, r.NavGoal.X, r.NavGoal.Y)
		}
		sb.WriteString(fmt.Sprintf("%-10s %-4s %-10s %6.1f%%  %-22s %4.0f%%  %s\n",
			r.Name, r.Kind, r.Status, r.Battery, pos, r.DetectionConfidence*100, truncate(strings.TrimSpace(task), maxFieldLength)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatLogEntry(e journal.Entry) string {
	return fmt.Sprintf("%s [%-5s] %-11s %s", e.Timestamp.Format("15:04:05"), e.Level, e.Source, e.Message)
}

func FormatLogs(entries []journal.Entry) string {
	if len(entries) == 0 {
		return "No log entries."
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = FormatLogEntry(e)
	}
	return strings.Join(lines, "\n")
}
