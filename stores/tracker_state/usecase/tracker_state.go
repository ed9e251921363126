package usecase

import (
	"time"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type trackerStateUseCase struct {
	trackerStateRepo domain.TrackerStateRepo
	ctxTimeout       time.Duration
}

func NewTrackerStateUseCase(r domain.TrackerStateRepo, ctxTimeout time.Duration) domain.TrackerStateUseCase {
	return &trackerStateUseCase{
		trackerStateRepo: r,
		ctxTimeout:       ctxTimeout,
	}
}

func (u *trackerStateUseCase) Get(c bCtx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	return u.trackerStateRepo.Get(ctx, id)
}

func (u *trackerStateUseCase) Update(c bCtx.Ctx, state *domain.TrackerState) error {
	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	return u.trackerStateRepo.Update(ctx, state)
}

func (u *trackerStateUseCase) Store(c bCtx.Ctx, state *domain.TrackerState) error {
	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	return u.trackerStateRepo.Store(ctx, state)
}
