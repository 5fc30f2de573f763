package reservation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/parse"
)

// FetchMachines replaces the machine collection with the server's device list.
// Records that cannot be converted are skipped. On failure the previous
// machines are kept and the error is returned for the caller to surface or ignore.
func (s *Store) FetchMachines(ctx context.Context) error {
	s.mu.Lock()
	s.machinesGen++
	gen := s.machinesGen
	s.loading = true
	s.mu.Unlock()

	list, err := s.api.ListDevices(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.machinesGen {
		s.loading = false
	}
	if err != nil {
		log.Printf("Error fetching machines: %v", err)
		return fmt.Errorf("fetch machines: %w", err)
	}
	if gen != s.machinesGen {
		log.Printf("Discarding superseded machines response (generation %d, latest %d)", gen, s.machinesGen)
		return nil
	}

	machines := make([]model.Machine, 0, len(list.Washers)+len(list.Dryers))
	machines = appendConverted(machines, list.Washers, model.MachineTypeWashing)
	machines = appendConverted(machines, list.Dryers, model.MachineTypeDryer)

	s.machines = machines
	s.rebuildMachineReservationsLocked()
	return nil
}

func appendConverted(dst []model.Machine, devices []apiclient.Device, t model.MachineType) []model.Machine {
	for _, d := range devices {
		m, err := convertDevice(d, t)
		if err != nil {
			log.Printf("Skipping device %d (%q): %v", d.ID, d.Label, err)
			continue
		}
		dst = append(dst, m)
	}
	return dst
}

// convertDevice turns a raw device record into a Machine.
func convertDevice(d apiclient.Device, t model.MachineType) (model.Machine, error) {
	label := strings.TrimSpace(d.Label)
	if label == "" {
		return model.Machine{}, fmt.Errorf("missing label")
	}

	floor := d.Floor
	if floor == 0 {
		parsed, err := parse.ParseLabel(label)
		if err != nil {
			return model.Machine{}, err
		}
		floor = parsed.Floor
	}
	if !validFloor(floor) {
		return model.Machine{}, fmt.Errorf("unsupported floor %d", floor)
	}

	var remaining *int
	if d.RemainingTime != "" {
		secs := parse.Duration(d.RemainingTime)
		remaining = &secs
	}

	summaries := make([]model.ReservationSummary, 0, len(d.Reservations))
	for _, r := range d.Reservations {
		r.Status = NormalizeStatus(string(r.Status))
		summaries = append(summaries, r)
	}

	m := model.Machine{
		ID:                   label,
		ServerID:             d.ID,
		Type:                 t,
		Floor:                floor,
		Location:             parse.Location(label),
		IsOutOfOrder:         d.IsOutOfOrder,
		NextAvailableSeconds: remaining,
		MachineState:         d.MachineState,
		JobState:             d.JobState,
		Reservations:         summaries,
	}
	m.Status = DeriveStatus(m)
	return m, nil
}

// DeriveStatus computes the displayed status: out-of-order first, then an active
// reservation, then the raw running state, else available.
func DeriveStatus(m model.Machine) model.MachineStatus {
	if m.IsOutOfOrder {
		return model.MachineBroken
	}
	if r, ok := m.ActiveReservation(); ok {
		return r.Status.MachineStatus()
	}
	if isRunning(m.MachineState) {
		return model.MachineInUse
	}
	return model.MachineAvailable
}

func isRunning(state string) bool {
	return strings.EqualFold(state, "running") || strings.EqualFold(state, "run")
}

func validFloor(floor int) bool {
	for _, f := range model.Floors {
		if f == floor {
			return true
		}
	}
	return false
}

// NormalizeStatus maps server status spellings onto ReservationStatus.
func NormalizeStatus(raw string) model.ReservationStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "waiting", "reserved":
		return model.ReservationReserved
	case "confirmed":
		return model.ReservationConfirmed
	case "running", "in-use", "inuse":
		return model.ReservationRunning
	case "collection":
		return model.ReservationCollection
	case "connecting":
		return model.ReservationConnecting
	case "cancelled", "canceled":
		return model.ReservationCancelled
	case "completed", "done":
		return model.ReservationCompleted
	}
	return model.ReservationStatus(raw)
}

// rebuildMachineReservationsLocked replaces the reservations derived from embedded
// device summaries, keeping the current user's reservation.
func (s *Store) rebuildMachineReservationsLocked() {
	kept := make([]model.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if r.Source != model.SourceMachines {
			kept = append(kept, r)
		}
	}

	for _, m := range s.machines {
		for _, summary := range m.Reservations {
			if !summary.Status.IsOccupying() || holds(kept, m.ID, summary.RoomNumber) {
				continue
			}
			remaining := 0
			if summary.Status == model.ReservationRunning && m.NextAvailableSeconds != nil {
				remaining = *m.NextAvailableSeconds
			}
			kept = append(kept, model.Reservation{
				ID:            s.newID(),
				MachineID:     m.ID,
				Type:          m.Type,
				Status:        summary.Status,
				TimeRemaining: remaining,
				StartTime:     parseTime(summary.StartTime),
				RoomNumber:    summary.RoomNumber,
				Source:        model.SourceMachines,
			})
		}
	}
	s.reservations = kept
}

func holds(reservations []model.Reservation, machineID, room string) bool {
	for _, r := range reservations {
		if r.MachineID == machineID && r.RoomNumber == room {
			return true
		}
	}
	return false
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
