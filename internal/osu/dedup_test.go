package osu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDeduplicatorDisabledTypesBypass(t *testing.T) {
	// Disabled types never touch redis, so a nil client is fine here.
	dedup := NewRedisDeduplicator(nil, 10*time.Minute, time.Minute, []string{"match"})

	ok, err := dedup.TryReserve(context.Background(), "match", 111)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, dedup.MarkProcessed(context.Background(), "match", 111))
	assert.NoError(t, dedup.Release(context.Background(), "match", 111))
}

func TestRedisDeduplicatorKeyNamespaces(t *testing.T) {
	dedup := NewRedisDeduplicator(nil, 10*time.Minute, time.Minute, nil)

	assert.Equal(t, "otr:fetch:pending:match:111", dedup.pendingKey("match", 111))
	assert.Equal(t, "otr:fetch:processed:player:42", dedup.processedKey("player", 42))
}
