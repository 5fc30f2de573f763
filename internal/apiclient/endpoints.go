package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"laundry-reservation/internal/model"
)

// SignIn authenticates and stores the returned token on the client.
func (c *Client) SignIn(ctx context.Context, schoolNumber, password string) (*SignInResult, error) {
	var result SignInResult
	if err := c.call(ctx, http.MethodPost, "/auth/signin", SignInRequest{SchoolNumber: schoolNumber, Password: password}, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// SignOut ends the session on the server and forgets the token locally either way.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/auth/signout", nil, nil)
	c.SetToken("")
	return err
}

// VerifyRole asks the server whether the current session is an administrator.
func (c *Client) VerifyRole(ctx context.Context) (bool, error) {
	var result struct {
		IsAdmin bool `json:"isAdmin"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/role", nil, &result); err != nil {
		return false, err
	}
	return result.IsAdmin, nil
}

// ListDevices returns every washer and dryer.
func (c *Client) ListDevices(ctx context.Context) (*DeviceList, error) {
	var list DeviceList
	if err := c.call(ctx, http.MethodGet, "/devices", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// MyInfo returns the signed-in user and their active reservation, if any.
func (c *Client) MyInfo(ctx context.Context) (*MyInfo, error) {
	var info MyInfo
	if err := c.call(ctx, http.MethodGet, "/users/me", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateReservation reserves the machine with the given label.
func (c *Client) CreateReservation(ctx context.Context, machineLabel string) (*BareResponse, error) {
	return c.callBare(ctx, http.MethodPost, "/reservations", map[string]string{"machineLabel": machineLabel})
}

// ConfirmReservation confirms a reservation once the user is at the machine.
func (c *Client) ConfirmReservation(ctx context.Context, id int64) (*BareResponse, error) {
	return c.callBare(ctx, http.MethodPost, fmt.Sprintf("/reservations/%d/confirm", id), nil)
}

// DeleteReservation cancels one of the user's reservations.
func (c *Client) DeleteReservation(ctx context.Context, id int64) (*BareResponse, error) {
	return c.callBare(ctx, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil)
}

// ReportDevice files a malfunction report.
func (c *Client) ReportDevice(ctx context.Context, deviceID int64, description string) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/devices/%d/report", deviceID), map[string]string{"description": description}, nil)
}

// ListUsers returns every user (admin).
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.call(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RestrictUser suspends a user's reservations until the given time (admin).
func (c *Client) RestrictUser(ctx context.Context, userID int64, until time.Time, reason string) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/restrict", userID), RestrictRequest{Until: until.UTC(), Reason: reason}, nil)
}

// UnrestrictUser lifts a restriction (admin).
func (c *Client) UnrestrictUser(ctx context.Context, userID int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d/restrict", userID), nil, nil)
}

// ListReservations returns every reservation (admin).
func (c *Client) ListReservations(ctx context.Context) ([]AdminReservation, error) {
	var list []AdminReservation
	if err := c.call(ctx, http.MethodGet, "/admin/reservations", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ForceCancelReservation cancels any reservation (admin).
func (c *Client) ForceCancelReservation(ctx context.Context, id int64) (*BareResponse, error) {
	return c.callBare(ctx, http.MethodDelete, fmt.Sprintf("/admin/reservations/%d", id), nil)
}

// ListReports returns malfunction reports (admin).
func (c *Client) ListReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if err := c.call(ctx, http.MethodGet, "/admin/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// ResolveReport marks a report as handled (admin).
func (c *Client) ResolveReport(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodPatch, fmt.Sprintf("/admin/reports/%d", id), map[string]bool{"resolved": true}, nil)
}

// SetDeviceOutOfOrder flags or clears a device's out-of-order state (admin).
func (c *Client) SetDeviceOutOfOrder(ctx context.Context, deviceID int64, outOfOrder bool) error {
	return c.call(ctx, http.MethodPatch, fmt.Sprintf("/admin/devices/%d", deviceID), map[string]bool{"isOutOfOrder": outOfOrder}, nil)
}
