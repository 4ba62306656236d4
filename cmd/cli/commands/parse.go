package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
	"github.com/jakechorley/gradingcommander/pkg/core/services"
)

// timeLayouts are tried in order; all but RFC3339 are read in local time
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime reads a command-line timestamp. "now" is the current time.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "now") {
		return time.Now().In(loc), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC3339 or \"2006-01-02 15:04\")", s)
}

// mergeModifiers overlays command-line modifiers on the configured ones
func mergeModifiers(configured, flags map[string]int) map[string]int {
	merged := make(map[string]int, len(configured)+len(flags))
	for login, mod := range configured {
		merged[login] = mod
	}
	for login, mod := range flags {
		merged[login] = mod
	}
	return merged
}

// formatPoints renders a point adjustment with an explicit sign
func formatPoints(points float64) string {
	return fmt.Sprintf("%+g", points)
}

// statusColor picks the display color for a handin status label
func statusColor(status string) string {
	switch status {
	case deadline.StatusEarly.String():
		return colorGreen
	case deadline.StatusLate.String():
		return colorYellow
	case deadline.StatusNCLate.String():
		return colorRed
	case services.NoHandinLabel:
		return colorDim
	default:
		return colorReset
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)
