// Package tui renders a live view of the laundry room.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/reservation"
)

const refreshTimeout = 15 * time.Second

// Model is the watch view. floor is an index into floors, or -1 for every floor.
type Model struct {
	store  *reservation.Store
	floors []int
	floor  int

	width      int
	refreshing bool
	lastSync   time.Time
	message    string
}

// NewModel creates the watch view over store.
func NewModel(store *reservation.Store) Model {
	return Model{
		store:  store,
		floors: store.CurrentAccessibleFloors(),
		floor:  -1,
	}
}

// tickMsg is sent every second to advance countdowns
type tickMsg time.Time

// refreshedMsg reports the end of a refresh
type refreshedMsg struct {
	at  time.Time
	err error
}

// Init starts the ticker and an initial refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.refreshCmd())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd re-fetches machines and, when signed in, the user's reservation.
// A 401 signs the session out.
func (m Model) refreshCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		err := store.FetchMachines(ctx)
		if err == nil && store.CurrentUser() != nil {
			err = store.FetchMyInfo(ctx)
		}
		if apiclient.IsUnauthorized(err) {
			store.InvalidateSession(ctx)
		}
		return refreshedMsg{at: time.Now(), err: err}
	}
}

// visibleFloors returns the floors shown at the current selection.
func (m Model) visibleFloors() []int {
	if m.floor < 0 || m.floor >= len(m.floors) {
		return m.floors
	}
	return []int{m.floors[m.floor]}
}
