package cli

import (
	"context"
	"errors"
	"fmt"

	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/reservation"
)

var errSignInRequired = errors.New("로그인이 필요합니다. 'laundryctl login'을 먼저 실행하세요")

// explain turns an error into a message for the terminal. A backend 401 also
// clears the stored session.
func (a *app) explain(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, reservation.ErrNotSignedIn):
		return errSignInRequired
	case apiclient.IsUnauthorized(err):
		a.store.InvalidateSession(ctx)
		return errSignInRequired
	case apiclient.StatusOf(err) == 0:
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%s (%s)", apiErr.Message, a.cfg.API.BaseURL)
		}
		return err
	}
	return errors.New(apiclient.MessageOf(err))
}

func (a *app) requireSignIn() error {
	if a.store.CurrentUser() == nil {
		return errSignInRequired
	}
	return nil
}
