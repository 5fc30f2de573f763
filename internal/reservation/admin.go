package reservation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/model"
)

// FetchUsers replaces the cached admin user list. On failure the cache is kept.
func (s *Store) FetchUsers(ctx context.Context) error {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		return fmt.Errorf("fetch users: %w", err)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()

	s.persistUsers(ctx, users)
	return nil
}

// FilterUsers searches the cached list by name, room or school number.
func (s *Store) FilterUsers(query string, restrictedOnly bool) []model.User {
	q := strings.ToLower(strings.TrimSpace(query))
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		if restrictedOnly && !u.IsRestricted(now) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(u.RoomNumber, q) &&
			!strings.Contains(u.SchoolNumber, q) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// RestrictUserOnServer restricts a user, then patches the cached list without
// waiting for a re-fetch. Server errors propagate and nothing is patched; an
// optimistic patch that was already applied is never rolled back.
func (s *Store) RestrictUserOnServer(ctx context.Context, userID int64, until time.Time, reason string) error {
	if err := s.api.RestrictUser(ctx, userID, until, reason); err != nil {
		return err
	}
	u := until
	s.patchRestriction(ctx, userID, &u, reason)
	return nil
}

// UnrestrictUserOnServer lifts a restriction and patches the cached list.
func (s *Store) UnrestrictUserOnServer(ctx context.Context, userID int64) error {
	if err := s.api.UnrestrictUser(ctx, userID); err != nil {
		return err
	}
	s.patchRestriction(ctx, userID, nil, "")
	return nil
}

func (s *Store) patchRestriction(ctx context.Context, userID int64, until *time.Time, reason string) {
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].RestrictedUntil = until
			s.users[i].RestrictionReason = reason
		}
	}
	users := append([]model.User(nil), s.users...)
	var current *model.User
	if s.currentUser != nil && s.currentUser.ID == userID {
		s.currentUser.RestrictedUntil = until
		s.currentUser.RestrictionReason = reason
		c := *s.currentUser
		current = &c
	}
	s.mu.Unlock()

	s.persistUsers(ctx, users)
	if current != nil {
		s.persistCurrentUser(ctx, current)
	}
}

// SetMachineOutOfOrder flags a machine on the server and re-derives its status locally.
func (s *Store) SetMachineOutOfOrder(ctx context.Context, machineID string, outOfOrder bool) error {
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

	if err := s.api.SetDeviceOutOfOrder(ctx, serverID, outOfOrder); err != nil {
		return err
	}

	s.mu.Lock()
	if m := s.findMachineLocked(machineID); m != nil {
		m.IsOutOfOrder = outOfOrder
		m.Status = DeriveStatus(*m)
	}
	s.mu.Unlock()
	return nil
}

// FetchAllReservations lists every reservation for administrators.
func (s *Store) FetchAllReservations(ctx context.Context) ([]apiclient.AdminReservation, error) {
	return s.api.ListReservations(ctx)
}

// ForceCancelReservation cancels any reservation; if it is the current user's, tracking stops.
func (s *Store) ForceCancelReservation(ctx context.Context, id int64) error {
	if _, err := s.api.ForceCancelReservation(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if r := s.currentReservationLocked(); r != nil && r.ServerID != nil && *r.ServerID == id {
		s.dropCurrentUserReservationsLocked()
	}
	s.mu.Unlock()
	return nil
}

// FetchReports lists malfunction reports.
func (s *Store) FetchReports(ctx context.Context) ([]apiclient.Report, error) {
	return s.api.ListReports(ctx)
}

// ResolveReport marks a report as handled.
func (s *Store) ResolveReport(ctx context.Context, id int64) error {
	return s.api.ResolveReport(ctx, id)
}
