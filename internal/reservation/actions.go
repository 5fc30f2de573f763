package reservation

import (
	"context"
	"fmt"
	"log"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/model"
)

// SignIn authenticates, stores the session and fills the current-user slot.
func (s *Store) SignIn(ctx context.Context, schoolNumber, password string) (*model.User, error) {
	result, err := s.api.SignIn(ctx, schoolNumber, password)
	if err != nil {
		return nil, err
	}

	user := result.User
	s.mu.Lock()
	s.currentUser = &user
	s.dropCurrentUserReservationsLocked()
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SaveSession(ctx, result.Token, user.ID); err != nil {
			log.Printf("Warning: could not persist session: %v", err)
		}
	}
	s.persistCurrentUser(ctx, &user)
	return &user, nil
}

// SignOut ends the server session and clears local credentials even if the server call fails.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.api.SignOut(ctx)
	s.InvalidateSession(ctx)
	return err
}

// InvalidateSession forgets the token, the current user and their reservation.
// Callers invoke it on any 401.
func (s *Store) InvalidateSession(ctx context.Context) {
	s.api.SetToken("")

	s.mu.Lock()
	s.dropCurrentUserReservationsLocked()
	s.currentUser = nil
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.ClearSession(ctx); err != nil {
			log.Printf("Warning: could not clear persisted session: %v", err)
		}
	}
}

// VerifyAdmin asks the server whether the session is an administrator.
func (s *Store) VerifyAdmin(ctx context.Context) (bool, error) {
	return s.api.VerifyRole(ctx)
}

// CreateReservation reserves machineID for the current user and tracks it locally
// until the next my-info fetch replaces it.
func (s *Store) CreateReservation(ctx context.Context, machineID string) (*model.Reservation, error) {
	s.mu.RLock()
	user := s.currentUser
	if user == nil {
		s.mu.RUnlock()
		return nil, ErrNotSignedIn
	}
	u := *user
	if u.IsRestricted(s.now()) {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s 남음", ErrRestricted, u.RestrictionRemaining(s.now()))
	}
	if s.currentReservationLocked() != nil || s.hasActiveByRoomLocked(u.RoomNumber) {
		s.mu.RUnlock()
		return nil, ErrAlreadyReserved
	}
	elig := s.canReserveLocked(machineID, u.RoomNumber)
	var machineType model.MachineType
	if m := s.findMachineLocked(machineID); m != nil {
		machineType = m.Type
	}
	s.mu.RUnlock()

	if !elig.CanReserve {
		return nil, fmt.Errorf("%w: %s", ErrNotReservable, elig.Reason)
	}

	resp, err := s.api.CreateReservation(ctx, machineID)
	if err != nil {
		return nil, err
	}

	r := model.Reservation{
		ID:            s.newID(),
		ServerID:      resp.ReservationID,
		MachineID:     machineID,
		Type:          machineType,
		Status:        model.ReservationReserved,
		TimeRemaining: DefaultWaitingSeconds,
		StartTime:     s.now(),
		RoomNumber:    u.RoomNumber,
		UserID:        u.ID,
		Message:       resp.Message,
		Source:        model.SourceLocal,
	}

	s.mu.Lock()
	s.dropCurrentUserReservationsLocked()
	s.reservations = append(s.reservations, r)
	s.mu.Unlock()

	c := cloneReservation(r)
	return &c, nil
}

// ConfirmReservation confirms the current user's reservation.
func (s *Store) ConfirmReservation(ctx context.Context) error {
	id, err := s.currentServerID()
	if err != nil {
		return err
	}

	resp, err := s.api.ConfirmReservation(ctx, id)
	if err != nil {
		s.recoverStale(ctx, err)
		return err
	}

	s.mu.Lock()
	if r := s.currentReservationLocked(); r != nil && r.ServerID != nil && *r.ServerID == id {
		r.Status = model.ReservationConfirmed
		r.TimeRemaining = DefaultConfirmedSeconds
		r.Message = resp.Message
	}
	s.mu.Unlock()
	return nil
}

// CancelReservation cancels the current user's reservation and stops tracking it.
func (s *Store) CancelReservation(ctx context.Context) error {
	id, err := s.currentServerID()
	if err != nil {
		return err
	}

	if _, err := s.api.DeleteReservation(ctx, id); err != nil {
		s.recoverStale(ctx, err)
		return err
	}

	s.mu.Lock()
	s.dropCurrentUserReservationsLocked()
	s.mu.Unlock()
	return nil
}

// ReportMachine files a malfunction report for machineID.
func (s *Store) ReportMachine(ctx context.Context, machineID, description string) error {
	s.mu.RLock()
	m := s.findMachineLocked(machineID)
	var serverID int64
	if m != nil {
		serverID = m.ServerID
	}
	s.mu.RUnlock()

	if m == nil {
		return fmt.Errorf("%w: %s", ErrUnknownMachine, machineID)
	}
	return s.api.ReportDevice(ctx, serverID, description)
}

func (s *Store) currentServerID() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.currentReservationLocked()
	if r == nil || r.ServerID == nil {
		return 0, ErrNoReservation
	}
	return *r.ServerID, nil
}

// recoverStale drops a reservation the server no longer knows and re-syncs.
func (s *Store) recoverStale(ctx context.Context, err error) {
	if !apiclient.IsNotFound(err) {
		return
	}
	log.Printf("Reservation is stale on the server, dropping it and re-syncing: %v", err)
	s.mu.Lock()
	s.dropCurrentUserReservationsLocked()
	s.mu.Unlock()
	if err := s.FetchMyInfo(ctx); err != nil {
		log.Printf("Re-sync after stale reservation failed: %v", err)
	}
}
