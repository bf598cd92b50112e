package core

import (
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// NextID returns a unique, strictly increasing transaction ID.
//
// IDs are millisecond timestamps bumped past the previous value when two
// calls land on the same tick, so rapid successive recurring instances
// never collide and never block waiting for the clock to advance.
func NextID() int64 {
	for {
		now := time.Now().UnixMilli()
		prev := lastID.Load()
		next := now
		if next <= prev {
			next = prev + 1
		}
		if lastID.CompareAndSwap(prev, next) {
			return next
		}
	}
}
