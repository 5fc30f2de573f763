package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundry-reservation/internal/model"
)

// Store persists the stable client slices: the admin user list, the current user and the session.
// Machines and reservations are never persisted.
type Store interface {
	SaveUsers(ctx context.Context, users []model.User) error
	LoadUsers(ctx context.Context) ([]model.User, error)
	SaveCurrentUser(ctx context.Context, user *model.User) error
	LoadCurrentUser(ctx context.Context) (*model.User, error)
	SaveSession(ctx context.Context, token string, userID int64) error
	LoadSession(ctx context.Context) (*model.Session, error)
	ClearSession(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

var userColumns = []string{"name", "room_number", "gender", "is_admin", "restricted_until", "restriction_reason", "school_number", "updated_at"}

// SaveUsers replaces the cached admin user list.
func (s *gormStore) SaveUsers(ctx context.Context, users []model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Rows that only back the current-user slot are kept.
		if err := tx.Where("is_current = ?", false).Delete(&model.CachedUser{}).Error; err != nil {
			return fmt.Errorf("failed to clear cached users: %w", err)
		}
		if err := tx.Model(&model.CachedUser{}).Where("in_list = ?", true).Update("in_list", false).Error; err != nil {
			return fmt.Errorf("failed to reset cached user list flags: %w", err)
		}
		if len(users) == 0 {
			return nil
		}

		rows := make([]model.CachedUser, 0, len(users))
		for _, u := range users {
			row := model.NewCachedUser(u)
			row.InList = true
			rows = append(rows, row)
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(append(userColumns, "in_list")),
		}).Create(&rows).Error
	})
}

// LoadUsers returns the cached admin user list ordered by room.
func (s *gormStore) LoadUsers(ctx context.Context) ([]model.User, error) {
	var rows []model.CachedUser
	if err := s.db.WithContext(ctx).Where("in_list = ?", true).Order("room_number, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load cached users: %w", err)
	}
	users := make([]model.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.ToUser())
	}
	return users, nil
}

// SaveCurrentUser replaces the current-user slot. A nil user clears it.
func (s *gormStore) SaveCurrentUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_current = ? AND in_list = ?", true, false).Delete(&model.CachedUser{}).Error; err != nil {
			return fmt.Errorf("failed to clear current user: %w", err)
		}
		if err := tx.Model(&model.CachedUser{}).Where("is_current = ?", true).Update("is_current", false).Error; err != nil {
			return fmt.Errorf("failed to reset current user flag: %w", err)
		}
		if user == nil {
			return nil
		}

		row := model.NewCachedUser(*user)
		row.IsCurrent = true
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(append(userColumns, "is_current")),
		}).Create(&row).Error
	})
}

// LoadCurrentUser returns the cached current user, or nil when none is stored.
func (s *gormStore) LoadCurrentUser(ctx context.Context) (*model.User, error) {
	var row model.CachedUser
	err := s.db.WithContext(ctx).Where("is_current = ?", true).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	u := row.ToUser()
	return &u, nil
}

// SaveSession stores the single session row.
func (s *gormStore) SaveSession(ctx context.Context, token string, userID int64) error {
	session := model.Session{ID: 1, Token: token, UserID: userID, CreatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "user_id", "created_at"}),
	}).Create(&session).Error
}

// LoadSession returns the stored session, or nil when signed out.
func (s *gormStore) LoadSession(ctx context.Context) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).First(&session, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

// ClearSession removes the session and the current-user slot.
func (s *gormStore) ClearSession(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("id = ?", 1).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return s.SaveCurrentUser(ctx, nil)
}
