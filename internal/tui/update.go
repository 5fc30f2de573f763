package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"laundry-reservation/internal/apiclient"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.store.DecrementTimers()
		return m, tickCmd()

	case refreshedMsg:
		m.refreshing = false
		if apiclient.IsUnauthorized(msg.err) {
			m.floors = m.store.CurrentAccessibleFloors()
			m.floor = -1
			m.message = "세션이 만료되었습니다. 다시 로그인하세요."
			return m, nil
		}
		if msg.err != nil {
			m.message = "새로고침 실패: " + apiclient.MessageOf(msg.err)
			return m, nil
		}
		m.lastSync = msg.at
		m.floors = m.store.CurrentAccessibleFloors()
		if m.floor >= len(m.floors) {
			m.floor = -1
		}
		m.message = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			m.message = "새로고침 중..."
			return m, m.refreshCmd()
		case key.Matches(msg, keys.Floor):
			m.floor++
			if m.floor >= len(m.floors) {
				m.floor = -1
			}
			return m, nil
		}
	}

	return m, nil
}
