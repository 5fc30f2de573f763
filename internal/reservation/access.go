package reservation

import (
	"strconv"
	"strings"

	"laundry-reservation/internal/model"
)

// Eligibility is the answer to "may this room reserve this machine".
type Eligibility struct {
	CanReserve bool   `json:"canReserve"`
	Reason     string `json:"reason"`
}

const (
	reasonUnknownMachine = "존재하지 않는 기기입니다."
	reasonOutOfOrder     = "고장 신고된 기기입니다."
	reasonInUse          = "현재 사용 중인 기기입니다."
	reasonOwnRoom        = "이미 내 방에서 예약한 기기입니다."
	reasonOtherRoom      = "다른 방에서 이미 예약한 기기입니다."
	reasonAvailable      = "예약 가능합니다."
)

// HasActiveReservation reports whether any tracked reservation of userID is occupying.
func (s *Store) HasActiveReservation(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reservations {
		if r.Status.IsOccupying() && r.UserID == userID && userID != 0 {
			return true
		}
	}
	return false
}

// HasActiveReservationByRoom reports whether any tracked reservation of room is occupying.
func (s *Store) HasActiveReservationByRoom(room string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasActiveByRoomLocked(room)
}

func (s *Store) hasActiveByRoomLocked(room string) bool {
	if room == "" {
		return false
	}
	for _, r := range s.reservations {
		if r.Status.IsOccupying() && r.RoomNumber == room {
			return true
		}
	}
	return false
}

// CanReserveMachine decides whether room may reserve machineID and explains why not.
func (s *Store) CanReserveMachine(machineID, room string) Eligibility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canReserveLocked(machineID, room)
}

func (s *Store) canReserveLocked(machineID, room string) Eligibility {
	m := s.findMachineLocked(machineID)
	if m == nil {
		return Eligibility{Reason: reasonUnknownMachine}
	}
	if m.IsOutOfOrder {
		return Eligibility{Reason: reasonOutOfOrder}
	}
	if m.Status == model.MachineInUse {
		return Eligibility{Reason: reasonInUse}
	}

	if holder, ok := s.activeHolderLocked(m); ok {
		if room != "" && holder == room {
			return Eligibility{Reason: reasonOwnRoom}
		}
		return Eligibility{Reason: reasonOtherRoom}
	}
	return Eligibility{CanReserve: true, Reason: reasonAvailable}
}

// activeHolderLocked returns the room of an occupying reservation on m, if any.
func (s *Store) activeHolderLocked(m *model.Machine) (string, bool) {
	if r, ok := m.ActiveReservation(); ok {
		return r.RoomNumber, true
	}
	for _, r := range s.reservations {
		if r.MachineID == m.ID && r.Status.IsOccupying() {
			return r.RoomNumber, true
		}
	}
	return "", false
}

// AccessibleFloors maps a room number or the admin role to the floors it may use.
// Rooms 300-499 share floors 3 and 4, rooms 500-599 use floor 5, anything else sees all.
func AccessibleFloors(roomOrRole string) []int {
	v := strings.TrimSpace(roomOrRole)
	all := append([]int(nil), model.Floors...)
	if strings.EqualFold(v, model.RoleAdmin) {
		return all
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return all
	}
	switch {
	case n >= 300 && n <= 499:
		return []int{3, 4}
	case n >= 500 && n <= 599:
		return []int{5}
	}
	return all
}

// CurrentAccessibleFloors applies AccessibleFloors to the signed-in user.
// The admin flag here is a display hint; privileged actions re-verify with the server.
func (s *Store) CurrentAccessibleFloors() []int {
	u := s.CurrentUser()
	if u == nil {
		return append([]int(nil), model.Floors...)
	}
	if u.IsAdmin {
		return AccessibleFloors(model.RoleAdmin)
	}
	return AccessibleFloors(u.RoomNumber)
}

// MachinesOnFloors returns copies of the machines located on any of floors.
func (s *Store) MachinesOnFloors(floors []int) []model.Machine {
	allowed := make(map[int]bool, len(floors))
	for _, f := range floors {
		allowed[f] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Machine, 0, len(s.machines))
	for _, m := range s.machines {
		if allowed[m.Floor] {
			out = append(out, cloneMachine(m))
		}
	}
	return out
}
