package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/database/mongoclient"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/listing"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
)

type listingImpl struct {
	q query.Mongo
}

func NewListing(q query.Mongo) listing.Repo {
	return &listingImpl{q}
}

func (im *listingImpl) FindOne(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	res := &listing.Listing{}

	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := im.q.FindOne(c, domain.TableListings, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (im *listingImpl) Count(c ctx.Ctx, id listing.Id) (int, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	res, err := im.q.Count(c, domain.TableListings, qry)
	if err != nil {
		return 0, err
	}

	return res, nil
}

func (im *listingImpl) Upsert(c ctx.Ctx, value listing.CreatePayload) error {
	id := listing.Id{ChainId: value.ChainId, ListingId: value.ListingId}

	if err := im.q.Upsert(c, domain.TableListings, id, value); err != nil {
		c.WithField("err", err).Error("q.Upsert failed")
		return err
	}

	return nil
}

func (im *listingImpl) Patch(c ctx.Ctx, id listing.Id, value listing.PatchablePayload) error {
	if slt, err := mongoclient.MakeBsonM(id); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if val, err := mongoclient.MakeBsonM(value); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if err := im.q.Patch(c, domain.TableListings, slt, val); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Patch failed")
		return err
	}

	return nil
}

func (im *listingImpl) Close(c ctx.Ctx, id listing.Id, value listing.ClosePayload) error {
	if !value.Status.IsTerminal() {
		return domain.ErrBadParamInput
	}

	slt, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}
	// only an active listing may be closed, a redelivered close event
	// matches nothing and falls through as ErrNotFound
	slt["status"] = listing.StatusActive

	val, err := mongoclient.MakeBsonM(value)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.CustomPatch(c, domain.TableListings, slt, bson.M{"$set": val}, false); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.CustomPatch failed")
		return err
	}

	return nil
}
