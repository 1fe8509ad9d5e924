package entry

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Entry{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGormStore(db)
}

func mk(id, ts, content string) Entry {
	return Entry{
		EntryID:   id,
		Date:      ts[:10],
		EntryTime: ts[11:],
		Timestamp: ts,
		MonthYear: ts[:7],
		Content:   content,
	}
}

func TestGormStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "u1", mk("2024-01-02_10-00-00", "2024-01-02 10:00:00", "b")))
	require.NoError(t, s.Create(ctx, "u1", mk("2024-03-01_08-00-00", "2024-03-01 08:00:00", "c")))
	require.NoError(t, s.Create(ctx, "u1", mk("2023-12-31_23-00-00", "2023-12-31 23:00:00", "a")))

	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Content)
	assert.Equal(t, "b", got[1].Content)
	assert.Equal(t, "a", got[2].Content)
	assert.Equal(t, "u1", got[0].UserKey)
}

func TestGormStore_PartitionedByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := mk("2024-01-02_10-00-00", "2024-01-02 10:00:00", "mine")
	require.NoError(t, s.Create(ctx, "u1", e))
	require.NoError(t, s.Create(ctx, "u2", mk(e.EntryID, e.Timestamp, "theirs")))

	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].Content)

	empty, err := s.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormStore_ResaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := mk("2024-01-02_10-00-00", "2024-01-02 10:00:00", "first")
	require.NoError(t, s.Create(ctx, "u1", e))
	e.Content = "second"
	e.Image, e.ImageType = "aGk=", "image/png"
	require.NoError(t, s.Create(ctx, "u1", e))

	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Content)
	assert.Equal(t, "aGk=", got[0].Image)
}

func TestGormStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := mk("2024-01-02_10-00-00", "2024-01-02 10:00:00", "x")
	require.NoError(t, s.Create(ctx, "u1", e))
	require.NoError(t, s.Create(ctx, "u2", e))

	require.NoError(t, s.Delete(ctx, "u1", e.EntryID))
	require.NoError(t, s.Delete(ctx, "u1", e.EntryID), "absent id is a no-op")
	require.NoError(t, s.Delete(ctx, "u1", "never-existed"))

	got, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	other, err := s.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestFind(t *testing.T) {
	list := []Entry{{EntryID: "a"}, {EntryID: "b", Content: "bee"}}

	e, err := Find(list, "b")
	require.NoError(t, err)
	assert.Equal(t, "bee", e.Content)

	_, err = Find(list, "z")
	assert.ErrorIs(t, err, ErrNotFound)
}
