package usecase

import (
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/collection"
)

type collectionUseCase struct {
	collectionRepo collection.Repo
}

func NewCollectionUseCase(r collection.Repo) collection.Usecase {
	return &collectionUseCase{
		collectionRepo: r,
	}
}

func (u *collectionUseCase) FindAll(c bCtx.Ctx, opts ...collection.FindAllOptions) ([]*collection.Collection, error) {
	return u.collectionRepo.FindAll(c, opts...)
}

func (u *collectionUseCase) FindOne(c bCtx.Ctx, id collection.CollectionId) (*collection.Collection, error) {
	return u.collectionRepo.FindOne(c, id)
}
