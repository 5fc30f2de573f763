package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundry-reservation/internal/db"
	"laundry-reservation/internal/model"
)

// A helper function to create an isolated in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	return gormDB
}

func TestGormStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newTestDB(t))

	until := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	users := []model.User{
		{ID: 2, Name: "Lee", RoomNumber: "512"},
		{ID: 1, Name: "Kim", RoomNumber: "315", RestrictedUntil: &until, RestrictionReason: "no-show"},
	}
	require.NoError(t, s.SaveUsers(ctx, users))

	loaded, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Kim", loaded[0].Name, "ordered by room number")
	require.NotNil(t, loaded[0].RestrictedUntil)
	assert.True(t, until.Equal(*loaded[0].RestrictedUntil))
	assert.Equal(t, "no-show", loaded[0].RestrictionReason)

	// Replacing the list drops users that are gone.
	require.NoError(t, s.SaveUsers(ctx, users[:1]))
	loaded, err = s.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(2), loaded[0].ID)
}

func TestGormStore_CurrentUserSurvivesListReplace(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newTestDB(t))

	me := model.User{ID: 7, Name: "Park", RoomNumber: "401", IsAdmin: true}
	require.NoError(t, s.SaveCurrentUser(ctx, &me))
	require.NoError(t, s.SaveUsers(ctx, []model.User{{ID: 7, Name: "Park", RoomNumber: "401"}, {ID: 8, Name: "Choi"}}))
	require.NoError(t, s.SaveUsers(ctx, nil))

	current, err := s.LoadCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, int64(7), current.ID)

	users, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, s.SaveCurrentUser(ctx, nil))
	current, err = s.LoadCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestGormStore_Session(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newTestDB(t))

	session, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	require.NoError(t, s.SaveSession(ctx, "tok-1", 7))
	require.NoError(t, s.SaveSession(ctx, "tok-2", 7))
	session, err = s.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "tok-2", session.Token)

	require.NoError(t, s.SaveCurrentUser(ctx, &model.User{ID: 7, Name: "Park"}))
	require.NoError(t, s.ClearSession(ctx))
	session, err = s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
	current, err := s.LoadCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}
