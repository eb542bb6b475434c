package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"hermes/hermes/sources/sqlstore/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDAO(t *testing.T) *ChatInteractionDAO {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	d := NewChatInteractionDAO(db)
	require.NoError(t, d.EnsureSchema(context.Background()))
	return d
}

func strPtr(s string) *string { return &s }

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	d := setupDAO(t)
	require.NoError(t, d.EnsureSchema(context.Background()))
	assert.True(t, d.DB.Migrator().HasTable("chat_interactions"))
}

func TestAppendRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := setupDAO(t)

	rec := &models.ChatInteraction{
		UserID:             "session-1",
		UserMessage:        "Top 3 slowest warehouses",
		AssistantMessage:   "WH-C, WH-A and WH-B.",
		UserTimestamp:      "2024-02-01T10:00:00.000Z",
		AssistantTimestamp: "2024-02-01T10:00:01.250Z",
		ResponseTimeMs:     1250.5,
		ModelName:          strPtr("gemini-2.0-flash"),
	}
	require.NoError(t, d.Append(ctx, rec))
	require.NotZero(t, rec.ID)

	got, err := d.ListByUser(ctx, "session-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := *rec
	assert.Equal(t, want, got[0])

	// nil model name survives as NULL
	require.NoError(t, d.Append(ctx, &models.ChatInteraction{
		UserID: "session-1", UserMessage: "q", AssistantMessage: "a",
		UserTimestamp: "t1", AssistantTimestamp: "t2",
	}))
	got, err = d.ListByUser(ctx, "session-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[1].ModelName)
}

func TestAppendRejectsExistingID(t *testing.T) {
	d := setupDAO(t)
	err := d.Append(context.Background(), &models.ChatInteraction{ID: 7, UserID: "u"})
	assert.Error(t, err)
}

func TestAppendSurfacesStoreFailure(t *testing.T) {
	d := setupDAO(t)
	sqlDB, err := d.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = d.Append(context.Background(), &models.ChatInteraction{UserID: "u", UserMessage: "q", AssistantMessage: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append interaction")
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	d := setupDAO(t)

	const writers = 8
	const perWriter = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				errs <- d.Append(ctx, &models.ChatInteraction{
					UserID:           fmt.Sprintf("user-%d", w),
					UserMessage:      fmt.Sprintf("q%d", i),
					AssistantMessage: "a",
				})
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := d.ListRecent(ctx, writers*perWriter+1)
	require.NoError(t, err)
	assert.Len(t, all, writers*perWriter)

	recent, err := d.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Greater(t, recent[0].ID, recent[4].ID)

	mine, err := d.ListByUser(ctx, "user-3", 3)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}
