package api

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// entropyPool is a pool of ulid.MonotonicEntropy
var entropyPool = sync.Pool{
	New: func() any {
		return ulid.Monotonic(rand.Reader, 0)
	},
}

// generateID generates a new ULID. Check ids are ULIDs so the range key
// in the checks table sorts by creation time.
func generateID() string {
	e := entropyPool.Get().(*ulid.MonotonicEntropy)
	defer entropyPool.Put(e)
	ts := ulid.Timestamp(time.Now())
	return ulid.MustNew(ts, e).String()
}
