package collection

import (
	"math/big"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type CollectionCreatedEvent struct {
	Creator      domain.Address
	Collection   domain.Address
	Name         string
	Symbol       string
	MaxSupply    *big.Int
	MaxPerWallet *big.Int
}

type PublicMintToggledEvent struct {
	Enabled bool
}

type CollaboratorAddedEvent struct {
	Collaborator domain.Address
}

type CollaboratorRemovedEvent struct {
	Collaborator domain.Address
}

type MintPriceUpdatedEvent struct {
	NewPrice *big.Int
}

type EventUseCase interface {
	CollectionCreated(ctx.Ctx, domain.ChainId, *CollectionCreatedEvent, *domain.LogMeta) error
	PublicMintToggled(ctx.Ctx, domain.ChainId, *PublicMintToggledEvent, *domain.LogMeta) error
	CollaboratorAdded(ctx.Ctx, domain.ChainId, *CollaboratorAddedEvent, *domain.LogMeta) error
	CollaboratorRemoved(ctx.Ctx, domain.ChainId, *CollaboratorRemovedEvent, *domain.LogMeta) error
	MintPriceUpdated(ctx.Ctx, domain.ChainId, *MintPriceUpdatedEvent, *domain.LogMeta) error
}
