package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/activity"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
)

func makeFindQuery(optFns ...activity.FindAllOptions) (bson.M, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	query := bson.M{}

	if opts.ChainId != nil {
		query["chainId"] = *opts.ChainId
	}

	if opts.Type != nil {
		query["type"] = *opts.Type
	}

	if opts.ContractAddress != nil {
		query["contractAddress"] = *opts.ContractAddress
	}

	if opts.TokenId != nil {
		query["tokenId"] = *opts.TokenId
	}

	if opts.ListingId != nil {
		query["listingId"] = *opts.ListingId
	}

	if opts.Account != nil {
		query["account"] = *opts.Account
	}

	return query, nil
}

type activityImpl struct {
	q query.Mongo
}

func NewActivity(q query.Mongo) activity.Repo {
	return &activityImpl{q}
}

func (im *activityImpl) Insert(c ctx.Ctx, value *activity.Activity) error {
	if err := im.q.Insert(c, domain.TableActivities, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *activityImpl) FindAll(c ctx.Ctx, optFns ...activity.FindAllOptions) ([]*activity.Activity, error) {
	res := []*activity.Activity{}

	qry, err := makeFindQuery(optFns...)
	if err != nil {
		c.WithField("err", err).Error("activity.GetFindAllOptions failed")
		return res, err
	}

	// newest first, ties broken by log position
	sort := []string{"-blockNumber", "-logIndex"}

	if err := im.q.SearchNSorts(c, domain.TableActivities, 0, 0, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.SearchNSorts failed")
		return res, err
	}

	return res, nil
}

func (im *activityImpl) Count(c ctx.Ctx, optFns ...activity.FindAllOptions) (int, error) {
	qry, err := makeFindQuery(optFns...)
	if err != nil {
		return 0, err
	}

	res, err := im.q.Count(c, domain.TableActivities, qry)
	if err != nil {
		return 0, err
	}

	return res, nil
}
