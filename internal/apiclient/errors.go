package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is returned by every failed call. Status is 0 for transport failures.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("api: %s: %v", e.Message, e.Err)
		}
		return "api: " + e.Message
	}
	return fmt.Sprintf("api HTTP %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the human-readable message carried by err.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsUnauthorized reports a 401; the session must be invalidated.
func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

// IsForbidden reports a 403, used by the backend for restricted accounts.
func IsForbidden(err error) bool { return StatusOf(err) == http.StatusForbidden }

// IsNotFound reports a 404, typically a stale reservation reference.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsConflict reports a 409, a reservation already held elsewhere.
func IsConflict(err error) bool { return StatusOf(err) == http.StatusConflict }

func defaultMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "로그인이 필요합니다."
	case http.StatusForbidden:
		return "이용이 제한된 계정입니다."
	case http.StatusNotFound:
		return "요청한 항목을 찾을 수 없습니다."
	case http.StatusConflict:
		return "이미 진행 중인 예약이 있습니다."
	}
	return http.StatusText(status)
}
