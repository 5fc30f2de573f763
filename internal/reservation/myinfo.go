package reservation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/parse"
)

// FetchMyInfo refreshes the current user and replaces their tracked reservation.
// On failure the previous state is kept.
func (s *Store) FetchMyInfo(ctx context.Context) error {
	s.mu.Lock()
	s.myInfoGen++
	gen := s.myInfoGen
	s.mu.Unlock()

	info, err := s.api.MyInfo(ctx)
	if err != nil {
		log.Printf("Error fetching my info: %v", err)
		return fmt.Errorf("fetch my info: %w", err)
	}

	s.mu.Lock()
	if gen != s.myInfoGen {
		s.mu.Unlock()
		log.Printf("Discarding superseded my-info response (generation %d)", gen)
		return nil
	}

	user := info.User
	s.currentUser = &user
	s.dropCurrentUserReservationsLocked()
	if r, ok := s.synthesizeLocked(info); ok {
		s.dropMachineDuplicateLocked(r.MachineID, r.RoomNumber)
		s.reservations = append(s.reservations, r)
	}
	s.mu.Unlock()

	s.persistCurrentUser(ctx, &user)
	return nil
}

// synthesizeLocked builds the current user's reservation from a my-info payload.
func (s *Store) synthesizeLocked(info *apiclient.MyInfo) (model.Reservation, bool) {
	if info.ReservationID == nil || info.MachineLabel == nil || strings.TrimSpace(*info.MachineLabel) == "" {
		return model.Reservation{}, false
	}

	label := strings.TrimSpace(*info.MachineLabel)
	machineType := typeFromLabel(label)
	if m := s.findMachineLocked(label); m != nil {
		machineType = m.Type
	}

	serverID := *info.ReservationID
	r := model.Reservation{
		ID:            s.newID(),
		ServerID:      &serverID,
		MachineID:     label,
		Type:          machineType,
		Status:        NormalizeStatus(info.ReservationStatus),
		TimeRemaining: remainingFromInfo(info),
		RoomNumber:    info.RoomNumber,
		UserID:        info.ID,
		Message:       info.StatusMessage,
		Source:        model.SourceMyInfo,
	}
	if info.StartTime != nil {
		r.StartTime = *info.StartTime
	}
	return r, true
}

// remainingFromInfo prefers the formatted duration, then the seconds count, then
// the per-status client default.
func remainingFromInfo(info *apiclient.MyInfo) int {
	if info.RemainingTime != nil && *info.RemainingTime != "" {
		return parse.Duration(*info.RemainingTime)
	}
	if info.RemainingSeconds != nil {
		return max(0, *info.RemainingSeconds)
	}
	switch strings.ToLower(info.ReservationStatus) {
	case "waiting", "reserved":
		return DefaultWaitingSeconds
	case "confirmed":
		return DefaultConfirmedSeconds
	}
	return 0
}

func (s *Store) dropMachineDuplicateLocked(machineID, room string) {
	kept := s.reservations[:0]
	for _, r := range s.reservations {
		if r.Source == model.SourceMachines && r.MachineID == machineID && r.RoomNumber == room {
			continue
		}
		kept = append(kept, r)
	}
	s.reservations = kept
}

func typeFromLabel(label string) model.MachineType {
	if strings.HasPrefix(strings.ToUpper(label), "D") {
		return model.MachineTypeDryer
	}
	return model.MachineTypeWashing
}
