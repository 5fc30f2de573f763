package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"laundry-reservation/internal/jobstate"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/parse"
)

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("기숙사 세탁실"))
	if u := m.store.CurrentUser(); u != nil {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("  %s (%s호)", u.Name, u.RoomNumber)))
	}
	b.WriteString("\n\n")

	if notice := m.restrictionNotice(); notice != "" {
		b.WriteString(NoticeStyle.Render(notice))
		b.WriteString("\n\n")
	}

	machines := m.store.MachinesOnFloors(m.visibleFloors())
	for _, floor := range m.visibleFloors() {
		b.WriteString(FloorStyle.Render(fmt.Sprintf("%d층", floor)))
		b.WriteString("\n")
		rows := 0
		for _, mc := range machines {
			if mc.Floor != floor {
				continue
			}
			b.WriteString(renderMachine(mc))
			b.WriteString("\n")
			rows++
		}
		if rows == 0 {
			b.WriteString(RowStyle.Render(HelpStyle.Render("기기 없음")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if panel := m.reservationPanel(); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	return b.String()
}

func renderMachine(mc model.Machine) string {
	info := jobstate.Lookup(mc.Type, mc.JobState)
	remaining := "--:--:--"
	if mc.NextAvailableSeconds != nil && *mc.NextAvailableSeconds > 0 {
		remaining = parse.FormatDuration(*mc.NextAvailableSeconds)
	}
	return RowStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(10).Render(mc.ID),
		StatusStyle(mc.Status).Width(10).Render(statusLabel(mc.Status)),
		JobStyle(info.Color).Width(14).Render(info.Icon+" "+info.Label),
		remaining,
	))
}

func (m Model) reservationPanel() string {
	r := m.store.CurrentReservation()
	if r == nil {
		return ""
	}
	lines := []string{
		fmt.Sprintf("내 예약  %s", r.MachineID),
		fmt.Sprintf("상태     %s", r.Status),
		fmt.Sprintf("남은 시간 %s", parse.FormatDuration(r.TimeRemaining)),
	}
	if r.Message != "" {
		lines = append(lines, HelpStyle.Render(r.Message))
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) restrictionNotice() string {
	u := m.store.CurrentUser()
	if u == nil {
		return ""
	}
	remaining := u.RestrictionRemaining(m.store.Now())
	if remaining == "" {
		return ""
	}
	notice := "예약이 제한된 계정입니다. 남은 시간: " + remaining
	if u.RestrictionReason != "" {
		notice += " (" + u.RestrictionReason + ")"
	}
	return notice
}

func (m Model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%s %s", keys.Refresh.Help().Key, keys.Refresh.Help().Desc),
		fmt.Sprintf("%s %s", keys.Floor.Help().Key, keys.Floor.Help().Desc),
		fmt.Sprintf("%s %s", keys.Quit.Help().Key, keys.Quit.Help().Desc),
	}
	status := strings.Join(parts, " • ")
	if !m.lastSync.IsZero() {
		status += "  |  synced " + m.lastSync.Format("15:04:05")
	}
	if m.message != "" {
		status += "  |  " + m.message
	}
	return StatusBarStyle.Render(status)
}
