package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/limbo/bloom/internal/error_values"
	"github.com/limbo/bloom/internal/repository"
	"github.com/limbo/bloom/internal/service"
	"github.com/limbo/bloom/pkg/entity"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var demoCreds = service.DemoCredentials{
	Email:    "test@example.com",
	Password: "password",
}

func newTestKV(t *testing.T) *repository.SQLiteKV {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewSQLiteKVWithDB(db)
}

func newUserService(t *testing.T) *service.UserService {
	t.Helper()
	return service.NewUserService(repository.NewUserRecordRepo(newTestKV(t)), demoCreds)
}

func TestUserServiceRegister(t *testing.T) {
	us := newUserService(t)
	ctx := context.Background()
	t.Run("fresh profile", func(t *testing.T) {
		user, err := us.Register(ctx, &service.RegisterRequest{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "hunter22",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, &entity.UserStats{Streak: 0, Entries: 0, Level: 1}, user.Stats)
		assert.Empty(t, user.Badges)
		assert.NotEmpty(t, user.JoinDate)

		current, err := us.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, user, current)
	})
	t.Run("validation failures are per-field", func(t *testing.T) {
		_, err := us.Register(ctx, &service.RegisterRequest{
			Name:     "",
			Email:    "not-an-email",
			Password: "short",
		})
		require.Error(t, err)
		fields, ok := service.FieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})
}

func TestUserServiceLogin(t *testing.T) {
	us := newUserService(t)
	ctx := context.Background()
	t.Run("wrong credentials", func(t *testing.T) {
		_, err := us.Login(ctx, "test@example.com", "nope")
		assert.ErrorIs(t, err, errorvalues.ErrWrongCredentials)
	})
	t.Run("demo profile installed", func(t *testing.T) {
		user, err := us.Login(ctx, "test@example.com", "password")
		require.NoError(t, err)
		assert.Equal(t, service.DemoUserID, user.ID)
		assert.Equal(t, "Test User", user.Name)
		assert.Equal(t, &entity.UserStats{Streak: 5, Entries: 24, Level: 3}, user.Stats)
		assert.Equal(t, []string{"Early Bird", "Mindful"}, user.Badges)
	})
	t.Run("sign-in replaces the previous session", func(t *testing.T) {
		_, err := us.Register(ctx, &service.RegisterRequest{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "hunter22",
		})
		require.NoError(t, err)
		_, err = us.Login(ctx, "test@example.com", "password")
		require.NoError(t, err)
		current, err := us.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, service.DemoUserID, current.ID)
	})
}

func TestUserServiceSignOut(t *testing.T) {
	us := newUserService(t)
	ctx := context.Background()
	_, err := us.Login(ctx, "test@example.com", "password")
	require.NoError(t, err)
	require.NoError(t, us.SignOut(ctx))
	_, err = us.Current(ctx)
	assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
}

func TestUserServiceUpdateAvatar(t *testing.T) {
	us := newUserService(t)
	ctx := context.Background()
	t.Run("signed out", func(t *testing.T) {
		_, err := us.UpdateAvatar(ctx, "x")
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("mutates in place", func(t *testing.T) {
		_, err := us.Login(ctx, "test@example.com", "password")
		require.NoError(t, err)
		user, err := us.UpdateAvatar(ctx, "data:image/png;base64,abc")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,abc", user.Avatar)
		current, err := us.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, user, current)
	})
}

func TestIdentityBroadcast(t *testing.T) {
	us := newUserService(t)
	ctx := context.Background()

	var seen []*entity.User
	unsubscribe := us.Subscribe(func(user *entity.User) {
		seen = append(seen, user)
	})

	_, err := us.Login(ctx, "test@example.com", "password")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, service.DemoUserID, seen[0].ID)

	_, err = us.UpdateAvatar(ctx, "new-face")
	require.NoError(t, err)
	require.Len(t, seen, 2)

	require.NoError(t, us.SignOut(ctx))
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])

	// After unsubscribe nothing more is delivered
	unsubscribe()
	_, err = us.Login(ctx, "test@example.com", "password")
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestLateSubscriberSeesNoReplay(t *testing.T) {
	us := newUserService(t)
	ctx := context.Background()
	_, err := us.Login(ctx, "test@example.com", "password")
	require.NoError(t, err)

	called := false
	unsubscribe := us.Subscribe(func(*entity.User) { called = true })
	defer unsubscribe()
	assert.False(t, called)
}
