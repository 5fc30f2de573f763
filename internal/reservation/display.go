package reservation

import (
	"time"

	"laundry-reservation/internal/jobstate"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/parse"
)

// OperatingStateInfo describes what a machine is doing right now.
type OperatingStateInfo struct {
	MachineID        string              `json:"machineId"`
	Known            bool                `json:"known"`
	Type             model.MachineType   `json:"type,omitempty"`
	Status           model.MachineStatus `json:"status,omitempty"`
	JobState         string              `json:"jobState"`
	Display          jobstate.Info       `json:"display"`
	RemainingSeconds int                 `json:"remainingSeconds"`
	Remaining        string              `json:"remaining"`
}

// ReservationInfo describes the reservation currently attached to a machine.
type ReservationInfo struct {
	MachineID      string                  `json:"machineId"`
	Known          bool                    `json:"known"`
	HasReservation bool                    `json:"hasReservation"`
	RoomNumber     string                  `json:"roomNumber,omitempty"`
	Status         model.ReservationStatus `json:"status,omitempty"`
	StartTime      *time.Time              `json:"startTime,omitempty"`
	TimeRemaining  int                     `json:"timeRemaining"`
	Message        string                  `json:"message"`
}

// MachineOperatingStateInfo derives display data for a machine. Unknown machines
// yield Known=false with the idle job-state entry.
func (s *Store) MachineOperatingStateInfo(machineID string) OperatingStateInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.findMachineLocked(machineID)
	if m == nil {
		return OperatingStateInfo{MachineID: machineID, Display: jobstate.None, Remaining: parse.FormatDuration(0)}
	}

	remaining := 0
	if m.NextAvailableSeconds != nil {
		remaining = *m.NextAvailableSeconds
	}
	return OperatingStateInfo{
		MachineID:        m.ID,
		Known:            true,
		Type:             m.Type,
		Status:           m.Status,
		JobState:         m.JobState,
		Display:          jobstate.Lookup(m.Type, m.JobState),
		RemainingSeconds: remaining,
		Remaining:        parse.FormatDuration(remaining),
	}
}

// MachineReservationInfo returns the active reservation on a machine, preferring a
// tracked reservation (which carries a countdown) over the embedded summary.
func (s *Store) MachineReservationInfo(machineID string) ReservationInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.findMachineLocked(machineID)
	if m == nil {
		return ReservationInfo{MachineID: machineID, Message: reasonUnknownMachine}
	}

	for _, r := range s.reservations {
		if r.MachineID == m.ID && r.Status.IsOccupying() {
			info := ReservationInfo{
				MachineID:      m.ID,
				Known:          true,
				HasReservation: true,
				RoomNumber:     r.RoomNumber,
				Status:         r.Status,
				TimeRemaining:  r.TimeRemaining,
				Message:        r.Message,
			}
			if !r.StartTime.IsZero() {
				start := r.StartTime
				info.StartTime = &start
			}
			return info
		}
	}

	if summary, ok := m.ActiveReservation(); ok {
		info := ReservationInfo{
			MachineID:      m.ID,
			Known:          true,
			HasReservation: true,
			RoomNumber:     summary.RoomNumber,
			Status:         summary.Status,
		}
		if t := parseTime(summary.StartTime); !t.IsZero() {
			info.StartTime = &t
		}
		return info
	}

	return ReservationInfo{MachineID: m.ID, Known: true, Message: "예약 없음"}
}
