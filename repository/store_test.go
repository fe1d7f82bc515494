package repository

import (
	"context"
	"testing"

	"sincroni/domain/entities"
	"sincroni/domain/registry"
	"sincroni/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadSnapshot(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	store := NewStore(testDB.DB)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		testDB.Truncate(t)

		snapshot, err := store.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshot.GlobalChats)
		assert.Empty(t, snapshot.Blacklists)
		assert.Empty(t, snapshot.LinkedChannels)
		assert.Empty(t, snapshot.EmbedColors)
	})

	t.Run("reads every table", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := store.GlobalChats().Create(ctx, testutil.CreateTestGlobalChat(1001, 2001, entities.ChatTypePublic))
		require.NoError(t, err)
		_, err = store.GlobalChats().Create(ctx, testutil.CreateTestGlobalChat(1002, 2002, entities.ChatTypePublic))
		require.NoError(t, err)
		_, err = store.Blacklists().Create(ctx, testutil.CreateTestBlacklist(0, 7001, entities.EntityKindUser, entities.ChatTypePublic))
		require.NoError(t, err)
		_, err = store.LinkedChannels().Create(ctx, 3001, 3002)
		require.NoError(t, err)
		_, err = store.EmbedColors().Upsert(ctx, testutil.CreateTestEmbedColor(1001, entities.ChatTypePublic, 0xABCDEF))
		require.NoError(t, err)

		snapshot, err := store.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshot.GlobalChats, 2)
		assert.Len(t, snapshot.Blacklists, 1)
		assert.Len(t, snapshot.LinkedChannels, 1)
		assert.Len(t, snapshot.EmbedColors, 1)
	})

	t.Run("registry hydrates from store and writes through", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := store.GlobalChats().Create(ctx, testutil.CreateTestGlobalChat(1001, 2001, entities.ChatTypePublic))
		require.NoError(t, err)

		reg := registry.New(store, nil)
		require.NoError(t, reg.Hydrate(ctx))
		require.NotNil(t, reg.GlobalChat(2001))

		_, err = reg.AddGlobalChat(ctx, 1002, 2002, entities.ChatTypePublic, nil)
		require.NoError(t, err)

		// A fresh registry sees the write
		fresh := registry.New(store, nil)
		require.NoError(t, fresh.Hydrate(ctx))
		assert.Len(t, fresh.GlobalChatsByType(entities.ChatTypePublic), 2)
	})
}
