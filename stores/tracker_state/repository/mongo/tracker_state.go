package mongo

import (
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/database/mongoclient"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
)

type trackerStateMongoRepo struct {
	q query.Mongo
}

func NewTrackerStateMongoRepo(q query.Mongo) domain.TrackerStateRepo {
	return &trackerStateMongoRepo{q: q}
}

func (r *trackerStateMongoRepo) Get(c bCtx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	slt, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	state := &domain.TrackerState{}
	if err := r.q.FindOne(c, domain.TableTrackerStates, slt, state); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return state, nil
}

func (r *trackerStateMongoRepo) Update(c bCtx.Ctx, state *domain.TrackerState) error {
	slt, err := mongoclient.MakeBsonM(state.ToId())
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := r.q.Patch(c, domain.TableTrackerStates, slt, state); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  state.ToId(),
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *trackerStateMongoRepo) Store(c bCtx.Ctx, state *domain.TrackerState) error {
	if err := r.q.Insert(c, domain.TableTrackerStates, state); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  state.ToId(),
		}).Error("q.Insert failed")
		return err
	}
	return nil
}
