package history

import (
	"context"
	"testing"

	"github.com/example/roomchat/modules/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, db.AutoMigrate(&MessageRecord{}), "failed to migrate test database")

	return db
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	store.setDB(setupTestDB(t))
	return store
}

func TestStore_AppendAssignsSequences(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seq1, err := store.Append(ctx, "lobby", "alice", "first")
	require.NoError(t, err)
	seq2, err := store.Append(ctx, "lobby", "bob", "second")
	require.NoError(t, err)

	assert.Equal(t, int64(1), seq1)
	assert.Equal(t, int64(2), seq2)
}

func TestStore_SequencesAreRoomScoped(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seqA, err := store.Append(ctx, "a", "alice", "hi")
	require.NoError(t, err)
	seqB, err := store.Append(ctx, "b", "alice", "hi")
	require.NoError(t, err)

	// Each room's log starts at 1 independently.
	assert.Equal(t, int64(1), seqA)
	assert.Equal(t, int64(1), seqB)
}

func TestStore_HistoryReturnsOldestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	contents := []string{"one", "two", "three"}
	for _, c := range contents {
		_, err := store.Append(ctx, "lobby", "alice", c)
		require.NoError(t, err)
	}
	_, err := store.Append(ctx, "other", "bob", "elsewhere")
	require.NoError(t, err)

	messages, err := store.History(ctx, "lobby")
	require.NoError(t, err)
	require.Len(t, messages, 3)

	for i, msg := range messages {
		assert.Equal(t, "lobby", msg.Room)
		assert.Equal(t, "alice", msg.Username)
		assert.Equal(t, contents[i], msg.Content)
		assert.Equal(t, int64(i+1), msg.Seq)
		assert.False(t, msg.SentAt.IsZero())
	}
}

func TestStore_HistoryOfEmptyRoom(t *testing.T) {
	store := setupTestStore(t)

	messages, err := store.History(context.Background(), "ghost-town")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestStore_SequenceSeedsFromExistingLog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := NewStore()
	first.setDB(db)
	_, err := first.Append(ctx, "lobby", "alice", "before restart")
	require.NoError(t, err)
	_, err = first.Append(ctx, "lobby", "alice", "still before")
	require.NoError(t, err)

	// A fresh store over the same database continues the sequence.
	second := NewStore()
	second.setDB(db)
	seq, err := second.Append(ctx, "lobby", "bob", "after restart")
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
}

func TestStore_UnavailableWithoutDatabase(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Append(ctx, "lobby", "alice", "hello")
	assert.ErrorIs(t, err, chat.ErrStorageUnavailable)

	_, err = store.History(ctx, "lobby")
	assert.ErrorIs(t, err, chat.ErrStorageUnavailable)
}
