// Package reservation holds the client's single source of truth for machines,
// reservations and users. Server fetches replace state wholesale; between fetches
// countdowns are projected locally, once per second.
package reservation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/model"
	"laundry-reservation/internal/store"
)

// API is the subset of the remote client the store depends on.
type API interface {
	SignIn(ctx context.Context, schoolNumber, password string) (*apiclient.SignInResult, error)
	SignOut(ctx context.Context) error
	SetToken(token string)
	VerifyRole(ctx context.Context) (bool, error)
	ListDevices(ctx context.Context) (*apiclient.DeviceList, error)
	MyInfo(ctx context.Context) (*apiclient.MyInfo, error)
	CreateReservation(ctx context.Context, machineLabel string) (*apiclient.BareResponse, error)
	ConfirmReservation(ctx context.Context, id int64) (*apiclient.BareResponse, error)
	DeleteReservation(ctx context.Context, id int64) (*apiclient.BareResponse, error)
	ReportDevice(ctx context.Context, deviceID int64, description string) error
	ListUsers(ctx context.Context) ([]model.User, error)
	RestrictUser(ctx context.Context, userID int64, until time.Time, reason string) error
	UnrestrictUser(ctx context.Context, userID int64) error
	ListReservations(ctx context.Context) ([]apiclient.AdminReservation, error)
	ForceCancelReservation(ctx context.Context, id int64) (*apiclient.BareResponse, error)
	ListReports(ctx context.Context) ([]apiclient.Report, error)
	ResolveReport(ctx context.Context, id int64) error
	SetDeviceOutOfOrder(ctx context.Context, deviceID int64, outOfOrder bool) error
}

const (
	// DefaultWaitingSeconds is used for a waiting reservation when the server sends no time.
	DefaultWaitingSeconds = 300
	// DefaultConfirmedSeconds is used for a confirmed reservation when the server sends no time.
	DefaultConfirmedSeconds = 120

	tickGuard = 900 * time.Millisecond
)

// Store is the reservation state owner. All methods are safe for concurrent use;
// the lock is never held across a network call.
type Store struct {
	api     API
	persist store.Store
	now     func() time.Time
	newID   func() string

	mu           sync.RWMutex
	machines     []model.Machine
	reservations []model.Reservation
	currentUser  *model.User
	users        []model.User
	loading      bool
	lastTick     time.Time
	machinesGen  uint64
	myInfoGen    uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator for local reservation ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store. persist may be nil, in which case nothing is persisted.
func NewStore(api API, persist store.Store, opts ...Option) *Store {
	s := &Store{
		api:     api,
		persist: persist,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate restores the persisted slices: session token, current user and user list.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	session, err := s.persist.LoadSession(ctx)
	if err != nil {
		return err
	}
	current, err := s.persist.LoadCurrentUser(ctx)
	if err != nil {
		return err
	}
	users, err := s.persist.LoadUsers(ctx)
	if err != nil {
		return err
	}

	if session != nil {
		s.api.SetToken(session.Token)
	}

	s.mu.Lock()
	s.currentUser = current
	s.users = users
	s.mu.Unlock()

	log.Printf("Hydrated store: signed_in=%t users=%d", session != nil, len(users))
	return nil
}

// Now reads the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Machines returns a copy of every machine.
func (s *Store) Machines() []model.Machine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Machine, 0, len(s.machines))
	for _, m := range s.machines {
		out = append(out, cloneMachine(m))
	}
	return out
}

// Machine returns a copy of the machine with the given label id.
func (s *Store) Machine(machineID string) (model.Machine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m := s.findMachineLocked(machineID); m != nil {
		return cloneMachine(*m), true
	}
	return model.Machine{}, false
}

// Reservations returns a copy of every tracked reservation.
func (s *Store) Reservations() []model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, cloneReservation(r))
	}
	return out
}

// CurrentUser returns the signed-in user, or nil.
func (s *Store) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

// CurrentReservation returns the signed-in user's reservation, or nil.
func (s *Store) CurrentReservation() *model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r := s.currentReservationLocked(); r != nil {
		c := cloneReservation(*r)
		return &c
	}
	return nil
}

// Users returns a copy of the cached admin user list.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.User(nil), s.users...)
}

// Loading reports whether a machines fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// StatusCounts tallies machines by derived status.
func (s *Store) StatusCounts() map[model.MachineStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[model.MachineStatus]int, 4)
	for _, m := range s.machines {
		counts[m.Status]++
	}
	return counts
}

func (s *Store) findMachineLocked(machineID string) *model.Machine {
	for i := range s.machines {
		if s.machines[i].ID == machineID {
			return &s.machines[i]
		}
	}
	return nil
}

// currentReservationLocked finds the reservation owned by the current user.
func (s *Store) currentReservationLocked() *model.Reservation {
	for i := range s.reservations {
		if s.isCurrentUsersLocked(s.reservations[i]) {
			return &s.reservations[i]
		}
	}
	return nil
}

func (s *Store) isCurrentUsersLocked(r model.Reservation) bool {
	if r.Source == model.SourceMyInfo || r.Source == model.SourceLocal {
		return true
	}
	return s.currentUser != nil && r.UserID != 0 && r.UserID == s.currentUser.ID
}

// dropCurrentUserReservationsLocked removes every reservation owned by the current user.
func (s *Store) dropCurrentUserReservationsLocked() {
	kept := s.reservations[:0]
	for _, r := range s.reservations {
		if !s.isCurrentUsersLocked(r) {
			kept = append(kept, r)
		}
	}
	s.reservations = kept
}

func (s *Store) persistCurrentUser(ctx context.Context, user *model.User) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveCurrentUser(ctx, user); err != nil {
		log.Printf("Warning: could not persist current user: %v", err)
	}
}

func (s *Store) persistUsers(ctx context.Context, users []model.User) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveUsers(ctx, users); err != nil {
		log.Printf("Warning: could not persist user list: %v", err)
	}
}

func cloneMachine(m model.Machine) model.Machine {
	if m.NextAvailableSeconds != nil {
		v := *m.NextAvailableSeconds
		m.NextAvailableSeconds = &v
	}
	m.Reservations = append([]model.ReservationSummary(nil), m.Reservations...)
	return m
}

func cloneReservation(r model.Reservation) model.Reservation {
	if r.ServerID != nil {
		v := *r.ServerID
		r.ServerID = &v
	}
	return r
}
