package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://localhost:notaport")
	assert.Error(t, err)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

func TestNewPgxPoolNeedsURL(t *testing.T) {
	_, err := NewPgxPool(context.Background(), "", false)
	assert.Error(t, err)
}
