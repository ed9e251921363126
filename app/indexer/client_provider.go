package main

import (
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
)

// clientProvider hands out ws clients for trackers, rotating to a fresh
// connection every `limit` consumers so a single dropped socket does not
// take every subscription down with it. The registry builds trackers from
// its supervise goroutines, so consume must be safe for concurrent use.
type clientProvider struct {
	url   string
	limit int

	mu     sync.Mutex
	count  int
	client *ethclient.Client
}

func newClientProvider(ctx bCtx.Ctx, limit int, url string) *clientProvider {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		ctx.WithField("err", err).Panic("ethclient.Dial failed")
	}
	return &clientProvider{url: url, limit: limit, client: client}
}

func (p *clientProvider) consume(ctx bCtx.Ctx) *ethclient.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.count++
	if p.count%p.limit == 0 {
		client, err := ethclient.DialContext(ctx, p.url)
		if err != nil {
			ctx.WithField("err", err).Panic("ethclient.Dial failed")
		}
		p.client = client
	}
	return p.client
}
