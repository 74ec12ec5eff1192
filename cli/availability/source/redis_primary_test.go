package source

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/daniil11ru/availability/cli/availability/types"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisPrimary(t *testing.T) (*RedisPrimary, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisPrimaryWithClient(client, "test")
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisPrimaryUpsert(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisPrimary(t)

	require.NoError(t, s.UpsertAll(ctx, []types.Vehicle{
		{ID: "V1", Name: "Scooter", BatteryLevel: 10, ResourceImageURLs: types.StringList{"a", "b", "c"}},
		{ID: "V2", Name: "Moped", BatteryLevel: 20, ResourceImageURLs: types.StringList{}},
	}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	ok, err := s.ExistsByID(ctx, "V1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("test:vehicle:V1"))

	// повторная запись заменяет все поля
	require.NoError(t, s.UpsertAll(ctx, []types.Vehicle{
		{ID: "V1", Name: "Scooter 2", BatteryLevel: 99, X: 1.5, ResourceImageURLs: types.StringList{"d"}},
	}))

	v, err := s.FindByID(ctx, "V1")
	require.NoError(t, err)
	assert.Equal(t, types.Vehicle{ID: "V1", Name: "Scooter 2", BatteryLevel: 99, X: 1.5, ResourceImageURLs: types.StringList{"d"}}, v)

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRedisPrimaryFindAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisPrimary(t)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	stored := []types.Vehicle{
		{ID: "V1", LicencePlate: "AB123", ResourceImageURLs: types.StringList{"a", "b", "c"}},
		{ID: "V2", LicencePlate: "CD456", ResourceImageURLs: types.StringList{}},
	}
	require.NoError(t, s.UpsertAll(ctx, stored))

	all, err = s.FindAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, stored, all)
}

func TestRedisPrimaryDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisPrimary(t)

	require.NoError(t, s.UpsertAll(ctx, []types.Vehicle{{ID: "V1"}, {ID: "V2"}, {ID: "V3"}}))
	require.NoError(t, s.DeleteAll(ctx, []types.Vehicle{{ID: "V1"}, {ID: "V3"}}))
	require.NoError(t, s.DeleteAll(ctx, nil))

	assert.False(t, mr.Exists("test:vehicle:V1"))
	assert.False(t, mr.Exists("test:vehicle:V3"))
	assert.True(t, mr.Exists("test:vehicle:V2"))

	member, err := mr.IsMember("test:vehicles", "V1")
	require.NoError(t, err)
	assert.False(t, member)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"V2"}, types.IDs(all))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisPrimaryNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisPrimary(t)

	_, err := s.FindByID(ctx, "V9")
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	ok, err := s.ExistsByID(ctx, "V9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPrimarySkipsDanglingIds(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisPrimary(t)

	require.NoError(t, s.UpsertAll(ctx, []types.Vehicle{{ID: "V1"}, {ID: "V2"}}))
	mr.Del("test:vehicle:V1")

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"V2"}, types.IDs(all))
}
