package model

import "time"

// CachedUser is a persisted copy of a user, either from the admin list or the current-user slot.
type CachedUser struct {
	ID                int64  `gorm:"primaryKey;autoIncrement:false"`
	Name              string `gorm:"size:128;not null"`
	RoomNumber        string `gorm:"size:16;index"`
	Gender            string `gorm:"size:16"`
	IsAdmin           bool   `gorm:"not null"`
	RestrictedUntil   *time.Time
	RestrictionReason string `gorm:"size:512"`
	SchoolNumber      string `gorm:"size:32"`
	IsCurrent         bool   `gorm:"not null;default:false"`
	InList            bool   `gorm:"not null;default:false"`
	UpdatedAt         time.Time
}

// Session holds the bearer token of the signed-in user. There is at most one row.
type Session struct {
	ID        int64  `gorm:"primaryKey"`
	Token     string `gorm:"not null"`
	UserID    int64
	CreatedAt time.Time `gorm:"not null"`
}

// ToUser converts the persisted row back to a User.
func (c CachedUser) ToUser() User {
	return User{
		ID:                c.ID,
		Name:              c.Name,
		RoomNumber:        c.RoomNumber,
		Gender:            c.Gender,
		IsAdmin:           c.IsAdmin,
		RestrictedUntil:   c.RestrictedUntil,
		RestrictionReason: c.RestrictionReason,
		SchoolNumber:      c.SchoolNumber,
	}
}

// NewCachedUser builds the persisted row for u.
func NewCachedUser(u User) CachedUser {
	return CachedUser{
		ID:                u.ID,
		Name:              u.Name,
		RoomNumber:        u.RoomNumber,
		Gender:            u.Gender,
		IsAdmin:           u.IsAdmin,
		RestrictedUntil:   u.RestrictedUntil,
		RestrictionReason: u.RestrictionReason,
		SchoolNumber:      u.SchoolNumber,
	}
}
