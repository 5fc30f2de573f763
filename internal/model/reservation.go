package model

import "time"

// ReservationStatus is a step of the reservation lifecycle.
type ReservationStatus string

const (
	ReservationReserved   ReservationStatus = "reserved"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationRunning    ReservationStatus = "running"
	ReservationCollection ReservationStatus = "collection"
	ReservationConnecting ReservationStatus = "connecting"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationCompleted  ReservationStatus = "completed"
)

// IsOccupying reports whether the status blocks new reservations.
func (s ReservationStatus) IsOccupying() bool {
	switch s {
	case ReservationReserved, ReservationConfirmed, ReservationRunning,
		ReservationConnecting, ReservationCollection:
		return true
	}
	return false
}

// MachineStatus maps an occupying reservation status to the machine status it implies.
func (s ReservationStatus) MachineStatus() MachineStatus {
	switch s {
	case ReservationRunning, ReservationCollection:
		return MachineInUse
	case ReservationReserved, ReservationConfirmed, ReservationConnecting:
		return MachineReserved
	}
	return MachineAvailable
}

// ReservationSource records which fetch produced a reservation.
type ReservationSource string

const (
	SourceMachines ReservationSource = "machines"
	SourceMyInfo   ReservationSource = "my-info"
	SourceLocal    ReservationSource = "local"
)

// Reservation is a claim on a machine tracked by the client.
type Reservation struct {
	ID            string            `json:"id"`
	ServerID      *int64            `json:"serverId,omitempty"`
	MachineID     string            `json:"machineId"`
	Type          MachineType       `json:"type"`
	Status        ReservationStatus `json:"status"`
	TimeRemaining int               `json:"timeRemaining"`
	StartTime     time.Time         `json:"startTime"`
	RoomNumber    string            `json:"roomNumber"`
	UserID        int64             `json:"userId,omitempty"`
	Message       string            `json:"message"`
	Source        ReservationSource `json:"source"`
}
