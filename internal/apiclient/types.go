package apiclient

import (
	"time"

	"laundry-reservation/internal/model"
)

// BareResponse is returned by reservation create/confirm/delete instead of the envelope.
type BareResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ReservationID *int64 `json:"reservationId,omitempty"`
}

// Device is a raw washer/dryer record.
type Device struct {
	ID            int64                      `json:"id"`
	Label         string                     `json:"label"`
	Floor         int                        `json:"floor"`
	IsOutOfOrder  bool                       `json:"isOutOfOrder"`
	MachineState  string                     `json:"machineState"`
	JobState      string                     `json:"jobState"`
	RemainingTime string                     `json:"remainingTime"`
	Reservations  []model.ReservationSummary `json:"reservations"`
}

// DeviceList is the payload of GET /devices.
type DeviceList struct {
	Washers []Device `json:"washers"`
	Dryers  []Device `json:"dryers"`
}

// MyInfo is the payload of GET /users/me.
type MyInfo struct {
	model.User
	ReservationID     *int64     `json:"reservationId"`
	MachineLabel      *string    `json:"machineLabel"`
	ReservationStatus string     `json:"reservationStatus"`
	RemainingTime     *string    `json:"remainingTime"`
	RemainingSeconds  *int       `json:"remainingSeconds"`
	StartTime         *time.Time `json:"startTime"`
	StatusMessage     string     `json:"statusMessage"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	SchoolNumber string `json:"schoolNumber"`
	Password     string `json:"password"`
}

// SignInResult is the payload of POST /auth/signin.
type SignInResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// RestrictRequest is the body of POST /admin/users/{id}/restrict.
type RestrictRequest struct {
	Until  time.Time `json:"until"`
	Reason string    `json:"reason"`
}

// AdminReservation is a reservation as listed for administrators.
type AdminReservation struct {
	ID            int64                   `json:"id"`
	MachineLabel  string                  `json:"machineLabel"`
	RoomNumber    string                  `json:"roomNumber"`
	UserName      string                  `json:"userName"`
	Status        model.ReservationStatus `json:"status"`
	StartTime     time.Time               `json:"startTime"`
	RemainingTime string                  `json:"remainingTime"`
}

// Report is a malfunction report filed against a device.
type Report struct {
	ID           int64     `json:"id"`
	DeviceID     int64     `json:"deviceId"`
	MachineLabel string    `json:"machineLabel"`
	Description  string    `json:"description"`
	ReporterRoom string    `json:"reporterRoom"`
	CreatedAt    time.Time `json:"createdAt"`
	Resolved     bool      `json:"resolved"`
}
