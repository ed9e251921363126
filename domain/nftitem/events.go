package nftitem

import (
	"math/big"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type TokenMintedEvent struct {
	Minter   domain.Address
	TokenId  *big.Int
	TokenUri string
	Category string
}

type TransferEvent struct {
	From    domain.Address
	To      domain.Address
	TokenId *big.Int
}

type EventUseCase interface {
	TokenMinted(ctx.Ctx, domain.ChainId, *TokenMintedEvent, *domain.LogMeta) error
	Transfer(ctx.Ctx, domain.ChainId, *TransferEvent, *domain.LogMeta) error
}
