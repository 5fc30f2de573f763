package reservation

import "errors"

var (
	// ErrNotSignedIn is returned by actions that need a current user.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrRestricted is returned when the current user's restriction window is open.
	ErrRestricted = errors.New("account is restricted")
	// ErrAlreadyReserved is returned when the user or room already holds a reservation.
	ErrAlreadyReserved = errors.New("an active reservation already exists")
	// ErrNotReservable wraps the reason CanReserveMachine gave.
	ErrNotReservable = errors.New("machine cannot be reserved")
	// ErrNoReservation is returned when there is no tracked reservation to act on.
	ErrNoReservation = errors.New("no active reservation")
	// ErrUnknownMachine is returned for a label the store does not know.
	ErrUnknownMachine = errors.New("unknown machine")
)
