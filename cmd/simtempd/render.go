package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codeberg.org/mutker/simtempd/internal/simtemp"
)

var (
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))  // soft green
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

// renderSample formats one sample for monitor mode. Alert samples are
// highlighted; everything else stays calm.
func renderSample(s simtemp.Sample) string {
	line := fmt.Sprintf("[%12.3fs] %7.3f°C (%6d mC)",
		float64(s.Timestamp)/1e9,
		float64(s.TempMilliC)/1000.0,
		s.TempMilliC,
	)

	flags := dimStyle.Render(fmt.Sprintf("flags=[%s]", flagNames(s.Flags)))

	if s.Flags&simtemp.FlagThresholdCrossed != 0 {
		return alertStyle.Render(line+"  THRESHOLD") + " " + flags
	}

	return normalStyle.Render(line) + " " + flags
}

func flagNames(flags uint32) string {
	var names []string
	if flags&simtemp.FlagNewSample != 0 {
		names = append(names, "NEW")
	}
	if flags&simtemp.FlagThresholdCrossed != 0 {
		names = append(names, "THRESHOLD")
	}
	if len(names) == 0 {
		return "NONE"
	}

	return strings.Join(names, ",")
}
