package reservation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/model"
)

func deviceList() *apiclient.DeviceList {
	return &apiclient.DeviceList{
		Washers: []apiclient.Device{
			{ID: 1, Label: "W-3-R1", RemainingTime: "00:45:30"},
			{ID: 2, Label: "W-4-L2", MachineState: "running", RemainingTime: "00:10:00"},
			{ID: 3, Label: "W-5-R1", IsOutOfOrder: true},
			{ID: 4, Label: "W-3-L1", Reservations: []model.ReservationSummary{
				{StartTime: "2026-03-01T11:58:00Z", RoomNumber: "412", Status: "waiting"},
			}},
		},
		Dryers: []apiclient.Device{
			{ID: 11, Label: "D-3-R1"},
			{ID: 12, Label: "D-9-R1"},
			{ID: 13, Label: ""},
		},
	}
}

func TestFetchMachines_ConvertsDevices(t *testing.T) {
	api := &fakeAPI{devices: deviceList()}
	s, _ := newTestStore(api)

	require.NoError(t, s.FetchMachines(context.Background()))
	assert.False(t, s.Loading())

	machines := s.Machines()
	require.Len(t, machines, 5, "records with an unknown floor or no label are skipped")

	w, ok := s.Machine("W-3-R1")
	require.True(t, ok)
	assert.Equal(t, model.MachineAvailable, w.Status)
	require.NotNil(t, w.NextAvailableSeconds)
	assert.Equal(t, 2730, *w.NextAvailableSeconds)
	assert.Equal(t, 3, w.Floor)
	assert.Equal(t, "R1", w.Location)
	assert.Equal(t, model.MachineTypeWashing, w.Type)

	running, _ := s.Machine("W-4-L2")
	assert.Equal(t, model.MachineInUse, running.Status)
	assert.Equal(t, "L2", running.Location)

	broken, _ := s.Machine("W-5-R1")
	assert.Equal(t, model.MachineBroken, broken.Status)

	reserved, _ := s.Machine("W-3-L1")
	assert.Equal(t, model.MachineReserved, reserved.Status)
	assert.True(t, s.HasActiveReservationByRoom("412"))

	dryer, _ := s.Machine("D-3-R1")
	assert.Equal(t, model.MachineTypeDryer, dryer.Type)
	assert.Nil(t, dryer.NextAvailableSeconds)

	counts := s.StatusCounts()
	assert.Equal(t, 2, counts[model.MachineAvailable])
	assert.Equal(t, 1, counts[model.MachineInUse])
	assert.Equal(t, 1, counts[model.MachineBroken])
	assert.Equal(t, 1, counts[model.MachineReserved])
}

func TestFetchMachines_KeepsStateOnError(t *testing.T) {
	api := &fakeAPI{devices: deviceList()}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMachines(context.Background()))

	api.devicesErr = &apiclient.Error{Message: "서버에 연결할 수 없습니다."}
	err := s.FetchMachines(context.Background())
	assert.Error(t, err)
	assert.False(t, s.Loading())
	assert.Len(t, s.Machines(), 5)
}

func TestFetchMachines_DiscardsSupersededResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	first := true

	api := &fakeAPI{}
	api.devicesFn = func(ctx context.Context) (*apiclient.DeviceList, error) {
		api.mu.Lock()
		isFirst := first
		first = false
		api.mu.Unlock()
		if isFirst {
			close(started)
			<-release
			return &apiclient.DeviceList{Washers: []apiclient.Device{{ID: 1, Label: "W-3-R1"}}}, nil
		}
		return &apiclient.DeviceList{Washers: []apiclient.Device{{ID: 2, Label: "W-4-R1"}}}, nil
	}
	s, _ := newTestStore(api)

	done := make(chan error)
	go func() { done <- s.FetchMachines(context.Background()) }()
	<-started

	require.NoError(t, s.FetchMachines(context.Background()))
	close(release)
	require.NoError(t, <-done)

	machines := s.Machines()
	require.Len(t, machines, 1)
	assert.Equal(t, "W-4-R1", machines[0].ID, "the last issued fetch wins")
	assert.False(t, s.Loading())
}

func TestDeriveStatus(t *testing.T) {
	testCases := []struct {
		name     string
		machine  model.Machine
		expected model.MachineStatus
	}{
		{"idle", model.Machine{}, model.MachineAvailable},
		{"running", model.Machine{MachineState: "running"}, model.MachineInUse},
		{"out of order wins over running", model.Machine{IsOutOfOrder: true, MachineState: "running"}, model.MachineBroken},
		{"out of order wins over reservation", model.Machine{IsOutOfOrder: true, Reservations: []model.ReservationSummary{{Status: model.ReservationReserved}}}, model.MachineBroken},
		{"reserved", model.Machine{Reservations: []model.ReservationSummary{{Status: model.ReservationConfirmed}}}, model.MachineReserved},
		{"running reservation", model.Machine{Reservations: []model.ReservationSummary{{Status: model.ReservationCollection}}}, model.MachineInUse},
		{"finished reservation ignored", model.Machine{Reservations: []model.ReservationSummary{{Status: model.ReservationCompleted}}}, model.MachineAvailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveStatus(tc.machine))
		})
	}
}

func myInfo(status string) *apiclient.MyInfo {
	return &apiclient.MyInfo{
		User:              model.User{ID: 7, Name: "김민수", RoomNumber: "315"},
		ReservationID:     ptr(int64(99)),
		MachineLabel:      ptr("W-3-R1"),
		ReservationStatus: status,
	}
}

func TestFetchMyInfo_DefaultRemaining(t *testing.T) {
	testCases := []struct {
		name     string
		info     *apiclient.MyInfo
		expected int
		status   model.ReservationStatus
	}{
		{"waiting without time", myInfo("waiting"), 300, model.ReservationReserved},
		{"confirmed without time", myInfo("confirmed"), 120, model.ReservationConfirmed},
		{"running without time", myInfo("running"), 0, model.ReservationRunning},
		{"formatted time wins", func() *apiclient.MyInfo {
			i := myInfo("waiting")
			i.RemainingTime = ptr("00:04:10")
			i.RemainingSeconds = ptr(12)
			return i
		}(), 250, model.ReservationReserved},
		{"seconds used when no formatted time", func() *apiclient.MyInfo {
			i := myInfo("confirmed")
			i.RemainingSeconds = ptr(42)
			return i
		}(), 42, model.ReservationConfirmed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestStore(&fakeAPI{myInfo: tc.info})
			require.NoError(t, s.FetchMyInfo(context.Background()))

			r := s.CurrentReservation()
			require.NotNil(t, r)
			assert.Equal(t, tc.expected, r.TimeRemaining)
			assert.Equal(t, tc.status, r.Status)
			assert.Equal(t, "W-3-R1", r.MachineID)
			assert.Equal(t, int64(99), *r.ServerID)
			assert.Equal(t, "김민수", s.CurrentUser().Name)
		})
	}
}

func TestFetchMyInfo_ReplacesAndClears(t *testing.T) {
	api := &fakeAPI{myInfo: myInfo("waiting")}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMyInfo(context.Background()))

	next := myInfo("confirmed")
	next.ReservationID = ptr(int64(100))
	next.MachineLabel = ptr("D-3-R1")
	api.myInfo = next
	require.NoError(t, s.FetchMyInfo(context.Background()))

	require.Len(t, s.Reservations(), 1, "only one reservation per user")
	assert.Equal(t, model.MachineTypeDryer, s.CurrentReservation().Type)

	api.myInfo = &apiclient.MyInfo{User: model.User{ID: 7, RoomNumber: "315"}}
	require.NoError(t, s.FetchMyInfo(context.Background()))
	assert.Nil(t, s.CurrentReservation())
	assert.Empty(t, s.Reservations())
}

func TestFetchMyInfo_KeepsStateOnError(t *testing.T) {
	api := &fakeAPI{myInfo: myInfo("waiting")}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMyInfo(context.Background()))

	api.myInfoErr = errors.New("boom")
	assert.Error(t, s.FetchMyInfo(context.Background()))
	assert.NotNil(t, s.CurrentReservation())
	assert.NotNil(t, s.CurrentUser())
}

func TestFetchMyInfo_DiscardsSupersededResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	first := true

	api := &fakeAPI{}
	api.myInfoFn = func(ctx context.Context) (*apiclient.MyInfo, error) {
		api.mu.Lock()
		isFirst := first
		first = false
		api.mu.Unlock()
		if isFirst {
			close(started)
			<-release
			return myInfo("waiting"), nil
		}
		next := myInfo("confirmed")
		next.ReservationID = ptr(int64(100))
		next.MachineLabel = ptr("D-3-R1")
		return next, nil
	}
	s, _ := newTestStore(api)

	done := make(chan error)
	go func() { done <- s.FetchMyInfo(context.Background()) }()
	<-started

	require.NoError(t, s.FetchMyInfo(context.Background()))
	close(release)
	require.NoError(t, <-done)

	require.Len(t, s.Reservations(), 1)
	r := s.CurrentReservation()
	require.NotNil(t, r)
	assert.Equal(t, "D-3-R1", r.MachineID, "the last issued fetch wins")
	assert.Equal(t, model.ReservationConfirmed, r.Status)
}

func TestDecrementTimers(t *testing.T) {
	api := &fakeAPI{devices: deviceList(), myInfo: myInfo("waiting")}
	s, clock := newTestStore(api)
	require.NoError(t, s.FetchMachines(context.Background()))
	require.NoError(t, s.FetchMyInfo(context.Background()))

	for i := 0; i < 10; i++ {
		assert.True(t, s.DecrementTimers())
		clock.Advance(time.Second)
	}

	assert.Equal(t, 290, s.CurrentReservation().TimeRemaining)
	m, _ := s.Machine("W-3-R1")
	assert.Equal(t, 2720, *m.NextAvailableSeconds)

	assert.False(t, func() bool {
		assert.True(t, s.DecrementTimers())
		clock.Advance(500 * time.Millisecond)
		return s.DecrementTimers()
	}(), "a second call inside 900ms is ignored")
	assert.Equal(t, 289, s.CurrentReservation().TimeRemaining)
}

func TestDecrementTimers_ClampsAtZero(t *testing.T) {
	info := myInfo("running")
	info.RemainingSeconds = ptr(3)
	s, clock := newTestStore(&fakeAPI{myInfo: info})
	require.NoError(t, s.FetchMyInfo(context.Background()))

	for i := 0; i < 8; i++ {
		s.DecrementTimers()
		clock.Advance(time.Second)
	}
	assert.Equal(t, 0, s.CurrentReservation().TimeRemaining)
}

func TestHasActiveReservation(t *testing.T) {
	s, _ := newTestStore(&fakeAPI{})
	assert.False(t, s.HasActiveReservation(7))
	assert.False(t, s.HasActiveReservationByRoom("315"))

	api := &fakeAPI{myInfo: myInfo("confirmed")}
	s, _ = newTestStore(api)
	require.NoError(t, s.FetchMyInfo(context.Background()))
	assert.True(t, s.HasActiveReservation(7))
	assert.True(t, s.HasActiveReservationByRoom("315"))
	assert.False(t, s.HasActiveReservation(8))
	assert.False(t, s.HasActiveReservationByRoom("316"))
	assert.False(t, s.HasActiveReservationByRoom(""))
}

func TestCanReserveMachine(t *testing.T) {
	api := &fakeAPI{devices: deviceList()}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMachines(context.Background()))

	testCases := []struct {
		name      string
		machineID string
		room      string
		expected  bool
		reason    string
	}{
		{"unknown", "W-9-R9", "315", false, reasonUnknownMachine},
		{"out of order", "W-5-R1", "512", false, reasonOutOfOrder},
		{"in use", "W-4-L2", "412", false, reasonInUse},
		{"own room", "W-3-L1", "412", false, reasonOwnRoom},
		{"other room", "W-3-L1", "315", false, reasonOtherRoom},
		{"available", "W-3-R1", "315", true, reasonAvailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := s.CanReserveMachine(tc.machineID, tc.room)
			assert.Equal(t, tc.expected, e.CanReserve)
			assert.Equal(t, tc.reason, e.Reason)
		})
	}
}

func TestAccessibleFloors(t *testing.T) {
	testCases := []struct {
		input    string
		expected []int
	}{
		{"315", []int{3, 4}},
		{"412", []int{3, 4}},
		{"512", []int{5}},
		{"admin", []int{3, 4, 5}},
		{"ADMIN", []int{3, 4, 5}},
		{"201", []int{3, 4, 5}},
		{"", []int{3, 4, 5}},
		{"abc", []int{3, 4, 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, AccessibleFloors(tc.input))
		})
	}
}

func TestMachinesOnFloors(t *testing.T) {
	s, _ := newTestStore(&fakeAPI{devices: deviceList()})
	require.NoError(t, s.FetchMachines(context.Background()))

	for _, m := range s.MachinesOnFloors([]int{5}) {
		assert.Equal(t, 5, m.Floor)
	}
	assert.Len(t, s.MachinesOnFloors([]int{3, 4}), 4)
}

func TestDisplayInfo(t *testing.T) {
	api := &fakeAPI{devices: deviceList()}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMachines(context.Background()))

	unknown := s.MachineOperatingStateInfo("nope")
	assert.False(t, unknown.Known)
	assert.Equal(t, "00:00:00", unknown.Remaining)

	op := s.MachineOperatingStateInfo("W-3-R1")
	assert.True(t, op.Known)
	assert.Equal(t, 2730, op.RemainingSeconds)
	assert.Equal(t, "00:45:30", op.Remaining)

	noRes := s.MachineReservationInfo("W-3-R1")
	assert.True(t, noRes.Known)
	assert.False(t, noRes.HasReservation)
	assert.Equal(t, "예약 없음", noRes.Message)

	held := s.MachineReservationInfo("W-3-L1")
	assert.True(t, held.HasReservation)
	assert.Equal(t, "412", held.RoomNumber)
	require.NotNil(t, held.StartTime)

	missing := s.MachineReservationInfo("nope")
	assert.False(t, missing.Known)
	assert.Equal(t, reasonUnknownMachine, missing.Message)
}

func signedInStore(t *testing.T, api *fakeAPI, user model.User) *Store {
	t.Helper()
	api.signIn = &apiclient.SignInResult{Token: "tok", User: user}
	s, _ := newTestStore(api)
	_, err := s.SignIn(context.Background(), "20260001", "pw")
	require.NoError(t, err)
	return s
}

func TestCreateReservation(t *testing.T) {
	api := &fakeAPI{devices: deviceList(), createResp: &apiclient.BareResponse{Success: true, ReservationID: ptr(int64(55))}}
	s := signedInStore(t, api, model.User{ID: 7, RoomNumber: "315"})
	require.NoError(t, s.FetchMachines(context.Background()))

	r, err := s.CreateReservation(context.Background(), "W-3-R1")
	require.NoError(t, err)
	assert.Equal(t, model.ReservationReserved, r.Status)
	assert.Equal(t, 300, r.TimeRemaining)
	assert.Equal(t, int64(55), *r.ServerID)
	assert.Equal(t, "tok", api.token)

	_, err = s.CreateReservation(context.Background(), "D-3-R1")
	assert.ErrorIs(t, err, ErrAlreadyReserved)
	assert.Equal(t, 1, api.called("CreateReservation"))
}

func TestCreateReservation_Rejections(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		s, _ := newTestStore(&fakeAPI{})
		_, err := s.CreateReservation(context.Background(), "W-3-R1")
		assert.ErrorIs(t, err, ErrNotSignedIn)
	})

	t.Run("restricted", func(t *testing.T) {
		until := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
		api := &fakeAPI{devices: deviceList()}
		s := signedInStore(t, api, model.User{ID: 7, RoomNumber: "315", RestrictedUntil: &until})
		require.NoError(t, s.FetchMachines(context.Background()))
		_, err := s.CreateReservation(context.Background(), "W-3-R1")
		assert.ErrorIs(t, err, ErrRestricted)
		assert.Contains(t, err.Error(), "1일 2시간 0분 0초")
		assert.Zero(t, api.called("CreateReservation"))
	})

	t.Run("not reservable", func(t *testing.T) {
		api := &fakeAPI{devices: deviceList()}
		s := signedInStore(t, api, model.User{ID: 7, RoomNumber: "315"})
		require.NoError(t, s.FetchMachines(context.Background()))
		_, err := s.CreateReservation(context.Background(), "W-5-R1")
		assert.ErrorIs(t, err, ErrNotReservable)
	})

	t.Run("server conflict propagates", func(t *testing.T) {
		api := &fakeAPI{devices: deviceList()}
		s := signedInStore(t, api, model.User{ID: 7, RoomNumber: "315"})
		require.NoError(t, s.FetchMachines(context.Background()))
		api.writeErr = &apiclient.Error{Status: http.StatusConflict, Message: "이미 예약이 있습니다."}
		_, err := s.CreateReservation(context.Background(), "W-3-R1")
		assert.True(t, apiclient.IsConflict(err))
		assert.Nil(t, s.CurrentReservation())
	})
}

func TestConfirmAndCancel(t *testing.T) {
	api := &fakeAPI{myInfo: myInfo("waiting")}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMyInfo(context.Background()))

	require.NoError(t, s.ConfirmReservation(context.Background()))
	r := s.CurrentReservation()
	assert.Equal(t, model.ReservationConfirmed, r.Status)
	assert.Equal(t, 120, r.TimeRemaining)

	require.NoError(t, s.CancelReservation(context.Background()))
	assert.Nil(t, s.CurrentReservation())
	assert.ErrorIs(t, s.CancelReservation(context.Background()), ErrNoReservation)
}

func TestForceCancelReservation_DropsCurrent(t *testing.T) {
	api := &fakeAPI{myInfo: myInfo("waiting")}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMyInfo(context.Background()))

	require.NoError(t, s.ForceCancelReservation(context.Background(), 42))
	assert.NotNil(t, s.CurrentReservation(), "another user's reservation leaves ours tracked")

	require.NoError(t, s.ForceCancelReservation(context.Background(), 99))
	assert.Nil(t, s.CurrentReservation())
	assert.Empty(t, s.Reservations())
	assert.Equal(t, 2, api.called("ForceCancelReservation"))
}

func TestConfirmReservation_StaleDropsAndResyncs(t *testing.T) {
	api := &fakeAPI{myInfo: myInfo("waiting")}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMyInfo(context.Background()))

	api.writeErr = &apiclient.Error{Status: http.StatusNotFound, Message: "예약을 찾을 수 없습니다."}
	api.myInfo = &apiclient.MyInfo{User: model.User{ID: 7, RoomNumber: "315"}}

	err := s.ConfirmReservation(context.Background())
	assert.True(t, apiclient.IsNotFound(err))
	assert.Nil(t, s.CurrentReservation())
	assert.Equal(t, 2, api.called("MyInfo"))
}

func TestInvalidateSession(t *testing.T) {
	api := &fakeAPI{myInfo: myInfo("waiting")}
	s := signedInStore(t, api, model.User{ID: 7, RoomNumber: "315"})
	require.NoError(t, s.FetchMyInfo(context.Background()))

	s.InvalidateSession(context.Background())
	assert.Nil(t, s.CurrentUser())
	assert.Nil(t, s.CurrentReservation())
	assert.Empty(t, api.token)
}

func TestRestrictUserOnServer_PatchesCache(t *testing.T) {
	api := &fakeAPI{users: []model.User{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	s := signedInStore(t, api, model.User{ID: 2, Name: "B"})
	require.NoError(t, s.FetchUsers(context.Background()))

	until := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.RestrictUserOnServer(context.Background(), 2, until, "노쇼"))

	users := s.Users()
	assert.Nil(t, users[0].RestrictedUntil)
	require.NotNil(t, users[1].RestrictedUntil)
	assert.Equal(t, until, *users[1].RestrictedUntil)
	assert.Equal(t, "노쇼", users[1].RestrictionReason)
	assert.Equal(t, "노쇼", s.CurrentUser().RestrictionReason)
	assert.Len(t, s.FilterUsers("", true), 1)

	require.NoError(t, s.UnrestrictUserOnServer(context.Background(), 2))
	assert.Nil(t, s.Users()[1].RestrictedUntil)
	assert.Empty(t, s.FilterUsers("", true))
}

func TestRestrictUserOnServer_ErrorLeavesCache(t *testing.T) {
	api := &fakeAPI{users: []model.User{{ID: 1, Name: "A"}}}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchUsers(context.Background()))

	api.adminErr = &apiclient.Error{Status: http.StatusForbidden, Message: "권한이 없습니다."}
	err := s.RestrictUserOnServer(context.Background(), 1, time.Now().Add(time.Hour), "x")
	assert.True(t, apiclient.IsForbidden(err))
	assert.Nil(t, s.Users()[0].RestrictedUntil)
}

func TestFilterUsers(t *testing.T) {
	api := &fakeAPI{users: []model.User{
		{ID: 1, Name: "Kim", RoomNumber: "315", SchoolNumber: "20260001"},
		{ID: 2, Name: "Lee", RoomNumber: "512", SchoolNumber: "20260002"},
	}}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchUsers(context.Background()))

	assert.Len(t, s.FilterUsers("", false), 2)
	assert.Len(t, s.FilterUsers("kim", false), 1)
	assert.Len(t, s.FilterUsers("512", false), 1)
	assert.Len(t, s.FilterUsers("2026000", false), 2)
	assert.Empty(t, s.FilterUsers("park", false))

	api.usersErr = errors.New("down")
	assert.Error(t, s.FetchUsers(context.Background()))
	assert.Len(t, s.Users(), 2, "failed refresh keeps the cached list")
}

func TestSetMachineOutOfOrder(t *testing.T) {
	api := &fakeAPI{devices: deviceList()}
	s, _ := newTestStore(api)
	require.NoError(t, s.FetchMachines(context.Background()))

	require.NoError(t, s.SetMachineOutOfOrder(context.Background(), "W-3-R1", true))
	m, _ := s.Machine("W-3-R1")
	assert.Equal(t, model.MachineBroken, m.Status)

	require.NoError(t, s.SetMachineOutOfOrder(context.Background(), "W-3-R1", false))
	m, _ = s.Machine("W-3-R1")
	assert.Equal(t, model.MachineAvailable, m.Status)

	assert.ErrorIs(t, s.SetMachineOutOfOrder(context.Background(), "nope", true), ErrUnknownMachine)
}
