package repository

import (
	"context"
	"testing"

	"sincroni/domain/entities"
	"sincroni/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedChannelRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLinkedChannelRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create and lookup by origin", func(t *testing.T) {
		testDB.Truncate(t)

		created, err := repo.Create(ctx, 3001, 3002)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		pair, err := repo.GetByOriginChannelID(ctx, 3001)
		require.NoError(t, err)
		require.NotNil(t, pair)
		assert.Equal(t, int64(3002), pair.DestinationChannelID)

		// Lookup is directional
		reverse, err := repo.GetByOriginChannelID(ctx, 3002)
		require.NoError(t, err)
		assert.Nil(t, reverse)
	})

	t.Run("origin can only have one destination", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := repo.Create(ctx, 3001, 3002)
		require.NoError(t, err)

		_, err = repo.Create(ctx, 3001, 3003)
		assert.ErrorIs(t, err, entities.ErrDuplicate)
	})

	t.Run("self link is rejected by the schema", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := repo.Create(ctx, 3001, 3001)
		assert.Error(t, err)
	})

	t.Run("get all and delete", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := repo.Create(ctx, 3005, 3006)
		require.NoError(t, err)
		_, err = repo.Create(ctx, 3001, 3002)
		require.NoError(t, err)

		pairs, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, int64(3001), pairs[0].OriginChannelID)

		require.NoError(t, repo.Delete(ctx, 3001))

		pairs, err = repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
		assert.Equal(t, int64(3005), pairs[0].OriginChannelID)
	})
}
