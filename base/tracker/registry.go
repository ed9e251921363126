package tracker

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/backoff"
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

// Runner is the started/awaited surface of an EventTracker
type Runner interface {
	Start(bCtx.Ctx)
	Wait()
}

// RunnerFactory builds a fresh tracker for a contract address. A new
// tracker is built on every restart so subscriptions and tracker state
// are re-established from scratch.
type RunnerFactory func(addr common.Address, errCh chan<- error) (Runner, error)

type RegistryCfg struct {
	NewTracker RunnerFactory
	// fatal errors, e.g. a factory that cannot build a tracker at all
	ErrorCh chan<- error

	// restart backoff bounds, zero values fall back to 1s..1m
	BackoffStart time.Duration
	BackoffLimit time.Duration
}

// Registry holds one running tracker per watched contract address. It is
// how collection watchers are added at runtime when the factory emits a
// creation event, and it restarts trackers whose subscription died
// instead of tearing the process down.
type Registry struct {
	mu         sync.Mutex
	handles    map[domain.Address]*handle
	newTracker RunnerFactory
	errorCh    chan<- error

	backoffStart time.Duration
	backoffLimit time.Duration

	wg sync.WaitGroup
}

type handle struct {
	cancel func()
}

func NewRegistry(cfg *RegistryCfg) *Registry {
	start := cfg.BackoffStart
	if start == 0 {
		start = time.Second
	}
	limit := cfg.BackoffLimit
	if limit == 0 {
		limit = time.Minute
	}
	return &Registry{
		handles:      make(map[domain.Address]*handle),
		newTracker:   cfg.NewTracker,
		errorCh:      cfg.ErrorCh,
		backoffStart: start,
		backoffLimit: limit,
	}
}

// Has reports whether a tracker is registered for addr
func (r *Registry) Has(addr domain.Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[addr.ToLower()]
	return ok
}

// Add starts a supervised tracker for addr. Adding an address twice is a
// no-op, so redelivered factory events are safe.
func (r *Registry) Add(ctx bCtx.Ctx, addr domain.Address) {
	key := addr.ToLower()

	r.mu.Lock()
	if _, ok := r.handles[key]; ok {
		r.mu.Unlock()
		return
	}
	superviseCtx, cancel := bCtx.WithCancel(ctx)
	r.handles[key] = &handle{cancel: cancel}
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.supervise(superviseCtx, key)
	}()
}

// Remove stops the tracker for addr if one is registered
func (r *Registry) Remove(addr domain.Address) {
	key := addr.ToLower()

	r.mu.Lock()
	h, ok := r.handles[key]
	if ok {
		delete(r.handles, key)
	}
	r.mu.Unlock()

	if ok {
		h.cancel()
	}
}

// Size returns the number of registered trackers
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Wait blocks until every supervised tracker has stopped
func (r *Registry) Wait() {
	r.wg.Wait()
}

func (r *Registry) supervise(ctx bCtx.Ctx, addr domain.Address) {
	bo := backoff.NewExponential(r.backoffStart, r.backoffLimit)
	for {
		errCh := make(chan error, 1)
		t, err := r.newTracker(common.HexToAddress(string(addr)), errCh)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":      err,
				"contract": addr,
			}).Error("failed to build tracker")
			r.errorCh <- err
			return
		}

		t.Start(ctx)
		select {
		case <-ctx.Done():
			t.Wait()
			return
		case err := <-errCh:
			t.Wait()
			ctx.WithFields(log.Fields{
				"err":      err,
				"contract": addr,
				"backoff":  bo.NextDuration,
			}).Warn("tracker stopped, restarting")
		}

		if err := bo.Backoff(ctx); err != nil {
			return
		}
	}
}
