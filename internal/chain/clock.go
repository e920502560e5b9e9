// Package chain exposes the external height counter used for policy expiry.
// The ledger treats the height as an opaque, monotonically advancing integer;
// it never advances the clock itself.
package chain

import (
	"context"
	"sync/atomic"
)

// Clock yields the current chain height.
type Clock interface {
	Height(ctx context.Context) uint64
}

// MemoryClock is an in-process Clock advanced explicitly by its owner.
// Tests and the demo server use it; a deployment would adapt a real chain
// client behind the Clock interface.
type MemoryClock struct {
	height atomic.Uint64
}

func NewMemoryClock(start uint64) *MemoryClock {
	c := &MemoryClock{}
	c.height.Store(start)
	return c
}

func (c *MemoryClock) Height(_ context.Context) uint64 {
	return c.height.Load()
}

// Advance moves the clock forward by n ticks and returns the new height.
func (c *MemoryClock) Advance(n uint64) uint64 {
	return c.height.Add(n)
}
