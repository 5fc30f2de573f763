package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/model"
)

// fakeAPI records calls and returns canned responses.
type fakeAPI struct {
	mu    sync.Mutex
	token string
	calls []string

	devices    *apiclient.DeviceList
	devicesErr error
	// devicesFn, when set, overrides devices/devicesErr.
	devicesFn func(ctx context.Context) (*apiclient.DeviceList, error)

	myInfo    *apiclient.MyInfo
	myInfoErr error
	// myInfoFn, when set, overrides myInfo/myInfoErr.
	myInfoFn func(ctx context.Context) (*apiclient.MyInfo, error)

	signIn    *apiclient.SignInResult
	signInErr error
	isAdmin   bool

	createResp *apiclient.BareResponse
	writeErr   error

	users    []model.User
	usersErr error
	adminErr error

	reports      []apiclient.Report
	reservations []apiclient.AdminReservation
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) SignIn(_ context.Context, _, _ string) (*apiclient.SignInResult, error) {
	f.record("SignIn")
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.SetToken(f.signIn.Token)
	return f.signIn, nil
}

func (f *fakeAPI) SignOut(context.Context) error {
	f.record("SignOut")
	return f.writeErr
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) VerifyRole(context.Context) (bool, error) {
	f.record("VerifyRole")
	return f.isAdmin, f.adminErr
}

func (f *fakeAPI) ListDevices(ctx context.Context) (*apiclient.DeviceList, error) {
	f.record("ListDevices")
	if f.devicesFn != nil {
		return f.devicesFn(ctx)
	}
	return f.devices, f.devicesErr
}

func (f *fakeAPI) MyInfo(ctx context.Context) (*apiclient.MyInfo, error) {
	f.record("MyInfo")
	if f.myInfoFn != nil {
		return f.myInfoFn(ctx)
	}
	return f.myInfo, f.myInfoErr
}

func (f *fakeAPI) CreateReservation(context.Context, string) (*apiclient.BareResponse, error) {
	f.record("CreateReservation")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if f.createResp != nil {
		return f.createResp, nil
	}
	return &apiclient.BareResponse{Success: true}, nil
}

func (f *fakeAPI) ConfirmReservation(context.Context, int64) (*apiclient.BareResponse, error) {
	f.record("ConfirmReservation")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &apiclient.BareResponse{Success: true, Message: "확정되었습니다."}, nil
}

func (f *fakeAPI) DeleteReservation(context.Context, int64) (*apiclient.BareResponse, error) {
	f.record("DeleteReservation")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &apiclient.BareResponse{Success: true}, nil
}

func (f *fakeAPI) ReportDevice(context.Context, int64, string) error {
	f.record("ReportDevice")
	return f.writeErr
}

func (f *fakeAPI) ListUsers(context.Context) ([]model.User, error) {
	f.record("ListUsers")
	return f.users, f.usersErr
}

func (f *fakeAPI) RestrictUser(context.Context, int64, time.Time, string) error {
	f.record("RestrictUser")
	return f.adminErr
}

func (f *fakeAPI) UnrestrictUser(context.Context, int64) error {
	f.record("UnrestrictUser")
	return f.adminErr
}

func (f *fakeAPI) ListReservations(context.Context) ([]apiclient.AdminReservation, error) {
	f.record("ListReservations")
	return f.reservations, f.adminErr
}

func (f *fakeAPI) ForceCancelReservation(context.Context, int64) (*apiclient.BareResponse, error) {
	f.record("ForceCancelReservation")
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return &apiclient.BareResponse{Success: true}, nil
}

func (f *fakeAPI) ListReports(context.Context) ([]apiclient.Report, error) {
	f.record("ListReports")
	return f.reports, f.adminErr
}

func (f *fakeAPI) ResolveReport(context.Context, int64) error {
	f.record("ResolveReport")
	return f.adminErr
}

func (f *fakeAPI) SetDeviceOutOfOrder(context.Context, int64, bool) error {
	f.record("SetDeviceOutOfOrder")
	return f.adminErr
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(api *fakeAPI) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	n := 0
	s := NewStore(api, nil, WithClock(clock.Now), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}))
	return s, clock
}

func ptr[T any](v T) *T { return &v }
