package model

// MachineType distinguishes washers from dryers.
type MachineType string

const (
	MachineTypeWashing MachineType = "washing"
	MachineTypeDryer   MachineType = "dryer"
)

// MachineStatus is the derived availability shown for a machine.
type MachineStatus string

const (
	MachineAvailable MachineStatus = "available"
	MachineInUse     MachineStatus = "in-use"
	MachineReserved  MachineStatus = "reserved"
	MachineBroken    MachineStatus = "broken"
)

// Floors lists every floor that carries machines.
var Floors = []int{3, 4, 5}

// ReservationSummary is a reservation as embedded in a device record.
type ReservationSummary struct {
	StartTime  string            `json:"startTime"`
	RoomNumber string            `json:"roomNumber"`
	Status     ReservationStatus `json:"status"`
}

// Machine is a washer or dryer as the client sees it.
type Machine struct {
	ID           string        `json:"id"` // label, e.g. "W-3-R1"
	ServerID     int64         `json:"serverId"`
	Type         MachineType   `json:"type"`
	Floor        int           `json:"floor"`
	Location     string        `json:"location"`
	Status       MachineStatus `json:"status"`
	IsOutOfOrder bool          `json:"isOutOfOrder"`
	// NextAvailableSeconds is the local countdown, decremented once per second.
	NextAvailableSeconds *int                 `json:"nextAvailableSeconds"`
	MachineState         string               `json:"machineState"`
	JobState             string               `json:"jobState"`
	Reservations         []ReservationSummary `json:"reservations"`
}

// ActiveReservation returns the first embedded reservation in an occupying state.
func (m *Machine) ActiveReservation() (ReservationSummary, bool) {
	for _, r := range m.Reservations {
		if r.Status.IsOccupying() {
			return r, true
		}
	}
	return ReservationSummary{}, false
}
