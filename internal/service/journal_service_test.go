package service_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/bloom/internal/repository"
	"github.com/limbo/bloom/internal/service"
	"github.com/limbo/bloom/pkg/entity"
)

func newJournalService(t *testing.T) *service.JournalService {
	t.Helper()
	return service.NewJournalService(repository.NewEntriesRepo(newTestKV(t)))
}

func okayEntry() *service.NewEntryRequest {
	return &service.NewEntryRequest{
		Mood:        entity.MoodOkay,
		MoodValue:   6,
		StressLevel: 5,
		Note:        "nothing special",
	}
}

func TestAddEntry(t *testing.T) {
	js := newJournalService(t)
	ctx := context.Background()
	userID := "user-1"

	t.Run("prepends and grows by one", func(t *testing.T) {
		before, err := js.GetUserData(ctx, userID)
		require.NoError(t, err)

		data, err := js.AddEntry(ctx, userID, okayEntry())
		require.NoError(t, err)
		require.Len(t, data.Entries, len(before.Entries)+1)
		assert.Equal(t, entity.MoodOkay, data.Entries[0].Mood)
		assert.Equal(t, 6, data.Entries[0].MoodValue)
		assert.NotEmpty(t, data.Entries[0].ID)
		assert.Equal(t, []string{"#daily"}, data.Entries[0].Tags)
	})
	t.Run("sequential writes never lose an entry", func(t *testing.T) {
		data, err := js.AddEntry(ctx, userID, &service.NewEntryRequest{
			Mood:        entity.MoodAmazing,
			MoodValue:   10,
			StressLevel: 1,
			Tags:        []string{"#exercise"},
		})
		require.NoError(t, err)
		require.Len(t, data.Entries, 2)
		// Newest first
		assert.Equal(t, entity.MoodAmazing, data.Entries[0].Mood)
		assert.Equal(t, entity.MoodOkay, data.Entries[1].Mood)

		stored, err := js.GetUserData(ctx, userID)
		require.NoError(t, err)
		require.Len(t, stored.Entries, len(data.Entries))
		for i := range data.Entries {
			// The stored date loses its monotonic reading and comes back in
			// UTC, so it is compared on the time axis and stripped for the
			// structural check
			assert.True(t, data.Entries[i].Date.Equal(stored.Entries[i].Date))
			want, got := data.Entries[i], stored.Entries[i]
			want.Date, got.Date = time.Time{}, time.Time{}
			assert.Equal(t, want, got)
		}
	})
	t.Run("validation failure touches nothing", func(t *testing.T) {
		before, err := js.GetUserData(ctx, userID)
		require.NoError(t, err)
		_, err = js.AddEntry(ctx, userID, &service.NewEntryRequest{
			Mood:        "Euphoric",
			MoodValue:   11,
			StressLevel: 0,
		})
		require.Error(t, err)
		fields, ok := service.FieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fields, "mood")
		after, err := js.GetUserData(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestInitializeUser(t *testing.T) {
	js := newJournalService(t)
	ctx := context.Background()
	userID := "user-1"

	require.NoError(t, js.InitializeUser(ctx, userID))
	data, err := js.GetUserData(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, data.Entries)

	_, err = js.AddEntry(ctx, userID, okayEntry())
	require.NoError(t, err)

	// Second init must not clobber the populated collection
	require.NoError(t, js.InitializeUser(ctx, userID))
	data, err = js.GetUserData(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, data.Entries, 1)
}

func TestSeedDemoData(t *testing.T) {
	js := newJournalService(t)
	ctx := context.Background()
	userID := "demo-user-123"

	require.NoError(t, js.SeedDemoData(ctx, userID))
	data, err := js.GetUserData(ctx, userID)
	require.NoError(t, err)
	require.Len(t, data.Entries, 7)

	today := time.Now()
	for i, e := range data.Entries {
		assert.Equal(t, "demo-"+strconv.Itoa(i), e.ID)
		// One entry per day, trailing week ending today
		want := today.AddDate(0, 0, -i)
		assert.Equal(t, want.Format("2006-01-02"), e.Date.Format("2006-01-02"))
		assert.Contains(t, []string{entity.MoodAmazing, entity.MoodGood, entity.MoodOkay, entity.MoodStressed}, e.Mood)
		assert.GreaterOrEqual(t, e.StressLevel, 1)
		assert.LessOrEqual(t, e.StressLevel, 10)
		assert.Equal(t, "Demo entry generated for preview.", e.Note)
		assert.Len(t, e.Tags, 1)
	}

	t.Run("second seeding is a no-op", func(t *testing.T) {
		require.NoError(t, js.SeedDemoData(ctx, userID))
		again, err := js.GetUserData(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, data, again)
	})
	t.Run("a single real entry also blocks seeding", func(t *testing.T) {
		other := "user-2"
		_, err := js.AddEntry(ctx, other, okayEntry())
		require.NoError(t, err)
		require.NoError(t, js.SeedDemoData(ctx, other))
		data, err := js.GetUserData(ctx, other)
		require.NoError(t, err)
		assert.Len(t, data.Entries, 1)
	})
}
