package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, "test", time.Minute), mr
}

func session(venue, date string) domain.Session {
	return domain.Session{
		Venue:       venue,
		SessionDate: types.MustParseDate(date),
		StartTime:   "18:00",
		EndTime:     "22:00",
	}
}

func TestLock_AcquireAndRelease(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, []domain.Session{
		session("Areca I", "2025-10-10"),
		session("Areca I", "2025-10-10"),
		session("Lawn", "2025-10-11"),
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:Areca I:2025-10-10"))
	assert.True(t, mr.Exists("test:Lawn:2025-10-11"))
	assert.Len(t, mr.Keys(), 2)

	require.NoError(t, unlock(ctx))
	assert.Empty(t, mr.Keys())
}

func TestLock_ContendedSlotFailsAndReleasesPartial(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	holder, err := locker.Lock(ctx, []domain.Session{session("Lawn", "2025-10-11")})
	require.NoError(t, err)

	_, err = locker.Lock(ctx, []domain.Session{
		session("Areca I", "2025-10-10"),
		session("Lawn", "2025-10-11"),
	})
	assert.ErrorIs(t, err, ErrLocked)

	// "Areca I" sorts first and must not be left behind
	assert.False(t, mr.Exists("test:Areca I:2025-10-10"))
	assert.True(t, mr.Exists("test:Lawn:2025-10-11"))

	require.NoError(t, holder(ctx))
}

func TestLock_ReleaseKeepsForeignToken(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, []domain.Session{session("Lawn", "2025-10-11")})
	require.NoError(t, err)

	// lock expired and was taken by another writer
	require.NoError(t, mr.Set("test:Lawn:2025-10-11", "someone-else"))

	require.NoError(t, unlock(ctx))
	value, err := mr.Get("test:Lawn:2025-10-11")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", value)
}

func TestLock_TTLApplied(t *testing.T) {
	locker, mr := newTestLocker(t)

	_, err := locker.Lock(context.Background(), []domain.Session{session("Lawn", "2025-10-11")})
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("test:Lawn:2025-10-11"))
}

func TestLock_SkipsUnschedulable(t *testing.T) {
	locker, mr := newTestLocker(t)

	unlock, err := locker.Lock(context.Background(), []domain.Session{{Venue: "Lawn"}})
	require.NoError(t, err)
	assert.Empty(t, mr.Keys())
	require.NoError(t, unlock(context.Background()))
}

func TestNoopLocker(t *testing.T) {
	unlock, err := NoopLocker{}.Lock(context.Background(), []domain.Session{session("Lawn", "2025-10-11")})
	require.NoError(t, err)
	assert.NoError(t, unlock(context.Background()))
}
