package gormpersistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feedchat/internal/domain"
	gormpersistence "feedchat/internal/infra/persistence/gorm"
	"feedchat/internal/infra/setup"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := setup.OpenDB(setup.DBConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "feedchat_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	return db
}

func TestGormPostRepository_DeleteCreatedBefore_StrictCutoff(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormPostRepository(db)
	ctx := context.Background()

	cutoff := time.Now().Add(-48 * time.Hour)
	expired := &domain.Post{Content: "old news", Author: "alice", CreatedAt: cutoff.Add(-time.Second)}
	fresh := &domain.Post{Content: "still here", Author: "alice", CreatedAt: cutoff.Add(time.Second)}
	require.NoError(t, repo.Save(ctx, expired))
	require.NoError(t, repo.Save(ctx, fresh))

	deleted, err := repo.DeleteCreatedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "only the row older than the cutoff goes")

	remaining, err := repo.FindAllNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "still here", remaining[0].Content)

	// Rerunning with the same cutoff deletes nothing further.
	deleted, err = repo.DeleteCreatedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestGormChatMessageRepository_DeleteCreatedBefore_StrictCutoff(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormChatMessageRepository(db)
	ctx := context.Background()

	cutoff := time.Now().Add(-48 * time.Hour)
	expired := &domain.ChatMessage{Username: "bob", Message: "gone soon", CreatedAt: cutoff.Add(-time.Second)}
	fresh := &domain.ChatMessage{Username: "bob", Message: "keeps", CreatedAt: cutoff.Add(time.Second)}
	require.NoError(t, repo.Save(ctx, expired))
	require.NoError(t, repo.Save(ctx, fresh))

	deleted, err := repo.DeleteCreatedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var kept []domain.ChatMessage
	require.NoError(t, db.WithContext(ctx).Find(&kept).Error)
	require.Len(t, kept, 1)
	assert.Equal(t, "keeps", kept[0].Message)
}
