package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Client = nil })
	return mr
}

func TestDenylistToken(t *testing.T) {
	mr := setupTestRedis(t)

	require.NoError(t, DenylistToken("jti-1", time.Hour))
	assert.True(t, IsTokenDenylisted("jti-1"))
	assert.False(t, IsTokenDenylisted("jti-2"))

	// The entry expires with the token itself
	mr.FastForward(2 * time.Hour)
	assert.False(t, IsTokenDenylisted("jti-1"))
}

func TestDenylistTokenExpiredTTL(t *testing.T) {
	setupTestRedis(t)

	// A token already past its expiry needs no denylist entry
	require.NoError(t, DenylistToken("jti-old", -time.Minute))
	assert.False(t, IsTokenDenylisted("jti-old"))
}

func TestIsTokenDenylistedFailsClosed(t *testing.T) {
	mr := setupTestRedis(t)
	mr.Close()

	// Redis unreachable: treat the token as revoked
	assert.True(t, IsTokenDenylisted("jti-any"))
}

func TestIsTokenDenylistedWithoutClient(t *testing.T) {
	Client = nil

	// Denylisting disabled entirely: nothing to check against
	assert.False(t, IsTokenDenylisted("jti-any"))
}
