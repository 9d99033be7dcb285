package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "copilot.db"),
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))

	chat := &domain.Chat{ID: uuid.New(), UserID: "u1", Title: "hi...", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, store.Chats.Create(ctx, chat))

	chats, err := store.Chats.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
