package model

import (
	"fmt"
	"time"
)

// RoleAdmin is the role string accepted wherever a room number or role is expected.
const RoleAdmin = "admin"

// User is a dormitory resident or administrator.
type User struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	RoomNumber        string     `json:"roomNumber"`
	Gender            string     `json:"gender"`
	IsAdmin           bool       `json:"isAdmin"`
	RestrictedUntil   *time.Time `json:"restrictedUntil"`
	RestrictionReason string     `json:"restrictionReason"`
	SchoolNumber      string     `json:"schoolNumber"`
}

// IsRestricted reports whether the restriction window is still open at now.
func (u *User) IsRestricted(now time.Time) bool {
	return u.RestrictedUntil != nil && u.RestrictedUntil.After(now)
}

// RestrictionRemaining formats the time left on a restriction, or "" when not restricted.
func (u *User) RestrictionRemaining(now time.Time) string {
	if !u.IsRestricted(now) {
		return ""
	}
	return FormatRestriction(u.RestrictedUntil.Sub(now))
}

// FormatRestriction renders d as "<d>일 <h>시간 <m>분 <s>초", dropping the day part when zero.
func FormatRestriction(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if days > 0 {
		return fmt.Sprintf("%d일 %d시간 %d분 %d초", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%d시간 %d분 %d초", hours, minutes, seconds)
}
