package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniClient(t *testing.T) (*miniredis.Miniredis, *r.Client) {
	mr := miniredis.RunT(t)
	client := r.NewClient(&r.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLockerExclusive(t *testing.T) {
	mr, client := newMiniClient(t)
	ctx := context.Background()
	locker := NewLocker(client, 200*time.Millisecond)

	release, err := locker.Lock(ctx, "scope:well-1:C1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("scope:well-1:C1"))

	_, err = locker.Lock(ctx, "scope:well-1:C1")
	assert.ErrorIs(t, err, code.ScopeLockErr)

	release()
	assert.False(t, mr.Exists("scope:well-1:C1"))

	release2, err := locker.Lock(ctx, "scope:well-1:C1")
	require.NoError(t, err)
	release2()
}

func TestReleaseKeepsForeignLock(t *testing.T) {
	mr, client := newMiniClient(t)
	locker := NewLocker(client, time.Second)

	release, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	require.NoError(t, mr.Set("k", "someone-else"))
	release()

	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), &Redis{Host: mr.Host(), Port: mustPort(t, mr)})
	require.NoError(t, err)
	SetClient(client)
	assert.NotNil(t, GetClient())
	require.NoError(t, GetClient().Set(context.Background(), "a", "b", 0).Err())
	CloseRedis(context.Background())
	assert.Nil(t, GetClient())
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	var port int
	_, err := fmt.Sscan(mr.Port(), &port)
	require.NoError(t, err)
	return port
}
