package tui

import (
	"github.com/charmbracelet/lipgloss"

	"laundry-reservation/internal/model"
)

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Warning   = lipgloss.Color("#FFB347")
	Danger    = lipgloss.Color("#FF6B6B")
	OK        = lipgloss.Color("#95E1A3")

	// job-state color classes
	jobColors = map[string]lipgloss.Color{
		"gray":   lipgloss.Color("#888888"),
		"blue":   lipgloss.Color("#5DADE2"),
		"cyan":   lipgloss.Color("#4ECDC4"),
		"purple": lipgloss.Color("#B39DDB"),
		"orange": lipgloss.Color("#FFB347"),
		"green":  lipgloss.Color("#95E1A3"),
		"yellow": lipgloss.Color("#FFE66D"),
		"red":    lipgloss.Color("#FF6B6B"),
	}
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	FloorStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	RowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 2)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// JobStyle returns the foreground style for a job-state color class.
func JobStyle(color string) lipgloss.Style {
	c, ok := jobColors[color]
	if !ok {
		c = TextMuted
	}
	return lipgloss.NewStyle().Foreground(c)
}

// StatusStyle colors a derived machine status.
func StatusStyle(s model.MachineStatus) lipgloss.Style {
	switch s {
	case model.MachineAvailable:
		return lipgloss.NewStyle().Foreground(OK)
	case model.MachineReserved:
		return lipgloss.NewStyle().Foreground(Warning)
	case model.MachineBroken:
		return lipgloss.NewStyle().Foreground(Danger)
	}
	return lipgloss.NewStyle().Foreground(Primary)
}

// statusLabel returns the Korean label of a machine status.
func statusLabel(s model.MachineStatus) string {
	switch s {
	case model.MachineAvailable:
		return "사용 가능"
	case model.MachineInUse:
		return "사용 중"
	case model.MachineReserved:
		return "예약됨"
	case model.MachineBroken:
		return "고장"
	}
	return string(s)
}
