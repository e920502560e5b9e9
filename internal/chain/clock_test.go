package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryClock(t *testing.T) {
	clock := NewMemoryClock(10)
	ctx := context.Background()

	assert.Equal(t, uint64(10), clock.Height(ctx))
	assert.Equal(t, uint64(15), clock.Advance(5))
	assert.Equal(t, uint64(15), clock.Height(ctx))
}
