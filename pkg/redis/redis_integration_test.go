//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"prefect-crm/config"
)

func newContainerClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	addr, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	c, err := NewClient(&config.RedisConfig{Addr: addr}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_Blacklist(t *testing.T) {
	c := newContainerClient(t)
	ctx := context.Background()

	ok, err := c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.BlacklistToken(ctx, "jti-1", time.Minute))
	ok, err = c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// 已过期的 Token 不写入
	require.NoError(t, c.BlacklistToken(ctx, "jti-2", 0))
	ok, err = c.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_CheckRateLimit(t *testing.T) {
	c := newContainerClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := c.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "第 %d 次请求应放行", i+1)
	}

	allowed, err := c.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestClient_JSONCache(t *testing.T) {
	c := newContainerClient(t)
	ctx := context.Background()

	type course struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
	}

	var got course
	assert.ErrorIs(t, c.GetJSON(ctx, "course:list", &got), ErrCacheMiss)

	require.NoError(t, c.SetJSON(ctx, "course:list", course{Name: "Python自动化", Price: 9800}, time.Minute))
	require.NoError(t, c.GetJSON(ctx, "course:list", &got))
	assert.Equal(t, course{Name: "Python自动化", Price: 9800}, got)

	require.NoError(t, c.Delete(ctx, "course:list"))
	assert.ErrorIs(t, c.GetJSON(ctx, "course:list", &got), ErrCacheMiss)
}
