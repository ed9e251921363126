package usecase

import (
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/nftitem"
)

type nftItemUseCase struct {
	nftitemRepo nftitem.Repo
}

func NewNftItemUseCase(r nftitem.Repo) nftitem.Usecase {
	return &nftItemUseCase{
		nftitemRepo: r,
	}
}

func (u *nftItemUseCase) FindOne(c bCtx.Ctx, id nftitem.Id) (*nftitem.NftItem, error) {
	return u.nftitemRepo.FindOne(c, id)
}

func (u *nftItemUseCase) SetOwner(c bCtx.Ctx, id nftitem.Id, owner domain.Address) error {
	return u.nftitemRepo.Patch(c, id, nftitem.PatchablePayload{Owner: owner.ToLowerPtr()})
}
