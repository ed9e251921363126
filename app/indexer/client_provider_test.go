package main

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
)

// every supervise goroutine consumes a client while the main goroutine is
// still handing them out, run with -race
func TestClientProviderConcurrentConsume(t *testing.T) {
	// limit high enough that no rotation dials out mid test
	p := &clientProvider{url: "ws://localhost:0", limit: 10000}

	ctx := bCtx.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.consume(ctx)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, p.count)
}
