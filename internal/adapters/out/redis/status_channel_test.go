package redis_test

import (
	"testing"

	"orderservice/internal/adapters/out/redis"
	"orderservice/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelName(t *testing.T) {
	id, err := kernel.UUIDFromString("6f1b3c1e-89a4-4a7b-9c55-0f3e5e7f8d21")
	require.NoError(t, err)

	assert.Equal(t, "order-status:6f1b3c1e-89a4-4a7b-9c55-0f3e5e7f8d21", redis.ChannelName(id))
}
