package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/database/mongoclient"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/collection"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
)

func makeFindQuery(optFns ...collection.FindAllOptions) (bson.M, error) {
	opts, err := collection.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	query := bson.M{}

	if opts.ChainId != nil {
		query["chainId"] = *opts.ChainId
	}

	if opts.Addresses != nil {
		query["address"] = bson.M{"$in": *opts.Addresses}
	}

	if opts.Creator != nil {
		query["creator"] = *opts.Creator
	}

	return query, nil
}

type collectionImpl struct {
	q query.Mongo
}

func NewCollection(q query.Mongo) collection.Repo {
	return &collectionImpl{q}
}

func (im *collectionImpl) FindAll(c ctx.Ctx, optFns ...collection.FindAllOptions) ([]*collection.Collection, error) {
	res := []*collection.Collection{}

	opts, err := collection.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("collection.GetFindAllOptions failed")
		return res, err
	}

	offset := int(0)

	limit := int(0)

	sort := []string{"_id"}

	query, err := makeFindQuery(optFns...)
	if err != nil {
		return res, err
	}

	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}

	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	if opts.SortBy != nil && opts.SortDir != nil {
		sortBy := *opts.SortBy
		if *opts.SortDir == domain.SortDirDesc {
			sortBy = "-" + sortBy
		}
		sort = []string{sortBy}

		if len(query) == 0 {
			query[*opts.SortBy] = bson.M{"$exists": true}
		}
	}

	if err := im.q.SearchNSorts(c, domain.TableCollections, offset, limit, sort, query, &res); err != nil {
		c.WithField("err", err).Error("q.SearchNSorts failed")
		return res, err
	}

	return res, nil
}

func (im *collectionImpl) Count(c ctx.Ctx, opts ...collection.FindAllOptions) (int, error) {
	qry, err := makeFindQuery(opts...)
	if err != nil {
		return 0, err
	}

	res, err := im.q.Count(c, domain.TableCollections, qry)
	if err != nil {
		return 0, err
	}

	return res, nil
}

func (im *collectionImpl) FindOne(c ctx.Ctx, id collection.CollectionId) (*collection.Collection, error) {
	res := &collection.Collection{}

	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}
	if err := im.q.FindOne(c, domain.TableCollections, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (im *collectionImpl) Upsert(c ctx.Ctx, value collection.CreatePayload) error {
	id := collection.CollectionId{ChainId: value.ChainId, Address: value.Address}

	if err := im.q.Upsert(c, domain.TableCollections, id, value); err != nil {
		c.WithField("err", err).Error("q.Upsert failed")
		return err
	}

	return nil
}

func (im *collectionImpl) Update(c ctx.Ctx, id collection.CollectionId, value collection.UpdatePayload) error {
	if slt, err := mongoclient.MakeBsonM(id); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if val, err := mongoclient.MakeBsonM(value); err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if err := im.q.Patch(c, domain.TableCollections, slt, val); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Patch failed")
		return err
	}

	return nil
}

func (im *collectionImpl) AddCollaborator(c ctx.Ctx, id collection.CollectionId, collaborator domain.Address) error {
	slt, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	// $addToSet keeps the collaborator list duplicate free under redelivery
	update := bson.M{"$addToSet": bson.M{"collaborators": collaborator.ToLower()}}
	if err := im.q.CustomPatch(c, domain.TableCollections, slt, update, false); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.CustomPatch failed")
		return err
	}

	return nil
}

func (im *collectionImpl) RemoveCollaborator(c ctx.Ctx, id collection.CollectionId, collaborator domain.Address) error {
	slt, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	res := &collection.Collection{}
	if err := im.q.Pull(c, domain.TableCollections, slt, res, "collaborators", collaborator.ToLower()); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Pull failed")
		return err
	}

	return nil
}
