package tracker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type fakeRunner struct {
	errCh   chan<- error
	err     error
	stopped chan interface{}
}

func (f *fakeRunner) Start(ctx bCtx.Ctx) {
	go func() {
		defer close(f.stopped)
		if f.err != nil {
			f.errCh <- f.err
			return
		}
		<-ctx.Done()
	}()
}

func (f *fakeRunner) Wait() {
	<-f.stopped
}

func TestRegistryAddIsIdempotent(t *testing.T) {
	var builds int32
	factory := func(addr common.Address, errCh chan<- error) (Runner, error) {
		atomic.AddInt32(&builds, 1)
		return &fakeRunner{errCh: errCh, stopped: make(chan interface{})}, nil
	}

	errCh := make(chan error, 1)
	r := NewRegistry(&RegistryCfg{NewTracker: factory, ErrorCh: errCh})

	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	addr := domain.Address("0x9438c455b9fC72A71Ad3225e8625Ec66Eb74CfAD")
	r.Add(ctx, addr)
	r.Add(ctx, addr)
	// same address, different casing
	r.Add(ctx, addr.ToLower())

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&builds) == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, r.Has(addr))
	assert.Equal(t, 1, r.Size())

	cancel()
	r.Wait()
}

func TestRegistryRestartsFailedTracker(t *testing.T) {
	var builds int32
	factory := func(addr common.Address, errCh chan<- error) (Runner, error) {
		n := atomic.AddInt32(&builds, 1)
		runner := &fakeRunner{errCh: errCh, stopped: make(chan interface{})}
		if n == 1 {
			runner.err = errors.New("subscription dropped")
		}
		return runner, nil
	}

	errCh := make(chan error, 1)
	r := NewRegistry(&RegistryCfg{
		NewTracker:   factory,
		ErrorCh:      errCh,
		BackoffStart: time.Millisecond,
		BackoffLimit: 10 * time.Millisecond,
	})

	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	r.Add(ctx, domain.Address("0x822d3c3d8ed080a041f861c2476f583e234920bb"))

	// first runner fails, a second one must be built
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&builds) >= 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	r.Wait()
}

func TestRegistryRemove(t *testing.T) {
	factory := func(addr common.Address, errCh chan<- error) (Runner, error) {
		return &fakeRunner{errCh: errCh, stopped: make(chan interface{})}, nil
	}

	errCh := make(chan error, 1)
	r := NewRegistry(&RegistryCfg{NewTracker: factory, ErrorCh: errCh})

	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()

	addr := domain.Address("0x5324a98b506f3265c500f978f3943a1fc6a55fa4")
	r.Add(ctx, addr)
	assert.True(t, r.Has(addr))

	r.Remove(addr)
	assert.False(t, r.Has(addr))
	r.Wait()
}
