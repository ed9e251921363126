package repository

import (
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/database/mongoclient"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/nftitem"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
)

type nftitemImpl struct {
	q query.Mongo
}

func NewNftItem(q query.Mongo) nftitem.Repo {
	return &nftitemImpl{q}
}

func (im *nftitemImpl) FindOne(c ctx.Ctx, id nftitem.Id) (*nftitem.NftItem, error) {
	res := &nftitem.NftItem{}

	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := im.q.FindOne(c, domain.TableNftItems, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (im *nftitemImpl) Count(c ctx.Ctx, id nftitem.Id) (int, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	res, err := im.q.Count(c, domain.TableNftItems, qry)
	if err != nil {
		return 0, err
	}

	return res, nil
}

func (im *nftitemImpl) Upsert(c ctx.Ctx, value nftitem.CreatePayload) error {
	id := nftitem.Id{
		ChainId:         value.ChainId,
		ContractAddress: value.ContractAddress,
		TokenId:         value.TokenId,
	}

	if err := im.q.Upsert(c, domain.TableNftItems, id, value); err != nil {
		c.WithField("err", err).Error("q.Upsert failed")
		return err
	}

	return nil
}

func (im *nftitemImpl) Patch(c ctx.Ctx, id nftitem.Id, value nftitem.PatchablePayload) error {
	if slt, err := mongoclient.MakeBsonM(id); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if val, err := mongoclient.MakeBsonM(value); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if err := im.q.Patch(c, domain.TableNftItems, slt, val); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Patch failed")
		return err
	}

	return nil
}
