package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisAddrAndURL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	plain := NewRedis(mr.Addr())
	defer plain.Close()
	assert.True(t, plain.Healthy(ctx))

	viaURL := NewRedis("redis://" + mr.Addr() + "/3")
	defer viaURL.Close()
	assert.Equal(t, 3, viaURL.Client.Options().DB)
	assert.True(t, viaURL.Healthy(ctx))

	mr.Close()
	assert.False(t, plain.Healthy(ctx))
}

func TestNilConnectionsAreUnhealthy(t *testing.T) {
	var db *DB
	var r *Redis
	assert.False(t, db.Healthy(context.Background()))
	assert.False(t, r.Healthy(context.Background()))
	assert.NoError(t, db.Close())
	assert.NoError(t, r.Close())
}
