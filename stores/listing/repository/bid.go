package repository

import (
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/database/mongoclient"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/listing"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
)

type bidImpl struct {
	q query.Mongo
}

func NewBid(q query.Mongo) listing.BidRepo {
	return &bidImpl{q}
}

func (im *bidImpl) Insert(c ctx.Ctx, value *listing.Bid) error {
	if err := im.q.Insert(c, domain.TableBids, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *bidImpl) FindAll(c ctx.Ctx, id listing.Id) ([]*listing.Bid, error) {
	res := []*listing.Bid{}

	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return res, err
	}

	sort := []string{"blockNumber", "logIndex"}

	if err := im.q.SearchNSorts(c, domain.TableBids, 0, 0, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.SearchNSorts failed")
		return res, err
	}

	return res, nil
}

func (im *bidImpl) Count(c ctx.Ctx, id listing.Id) (int, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	res, err := im.q.Count(c, domain.TableBids, qry)
	if err != nil {
		return 0, err
	}

	return res, nil
}
