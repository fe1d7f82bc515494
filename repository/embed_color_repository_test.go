package repository

import (
	"context"
	"testing"

	"sincroni/domain/entities"
	"sincroni/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedColorRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewEmbedColorRepository(testDB.DB)
	ctx := context.Background()

	t.Run("upsert replaces existing color", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := repo.Upsert(ctx, testutil.CreateTestEmbedColor(1001, entities.ChatTypePublic, 0x00FF00))
		require.NoError(t, err)

		updated, err := repo.Upsert(ctx, testutil.CreateTestEmbedColor(1001, entities.ChatTypePublic, 0x123456))
		require.NoError(t, err)
		assert.Equal(t, 0x123456, updated.ColorValue)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, 0x123456, all[0].ColorValue)
	})

	t.Run("colors are per chat type", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := repo.Upsert(ctx, testutil.CreateTestEmbedColor(1001, entities.ChatTypePublic, 0xFF0000))
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, testutil.CreateTestEmbedColor(1001, entities.ChatTypeRepeat, 0x0000FF))
		require.NoError(t, err)

		public, err := repo.GetByKey(ctx, 1001, entities.ChatTypePublic)
		require.NoError(t, err)
		require.NotNil(t, public)
		assert.Equal(t, 0xFF0000, public.ColorValue)

		dev, err := repo.GetByKey(ctx, 1001, entities.ChatTypeDeveloper)
		require.NoError(t, err)
		assert.Nil(t, dev)
	})

	t.Run("out of range color violates check", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := repo.Upsert(ctx, testutil.CreateTestEmbedColor(1001, entities.ChatTypePublic, 0x1000000))
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := repo.Upsert(ctx, testutil.CreateTestEmbedColor(1001, entities.ChatTypePublic, 0xFFFFFF))
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, 1001, entities.ChatTypePublic))

		got, err := repo.GetByKey(ctx, 1001, entities.ChatTypePublic)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
