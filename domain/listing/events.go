package listing

import (
	"math/big"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type ListingCreatedEvent struct {
	ListingId domain.ListingId
	Seller    domain.Address
	Nft       domain.Address
	TokenId   *big.Int
	SaleType  uint8
	Price     *big.Int
}

type BidPlacedEvent struct {
	ListingId domain.ListingId
	Bidder    domain.Address
	Amount    *big.Int
}

type SaleCompletedEvent struct {
	ListingId domain.ListingId
	Buyer     domain.Address
	Amount    *big.Int
}

type ListingCancelledEvent struct {
	ListingId domain.ListingId
}

type PriceUpdatedEvent struct {
	ListingId domain.ListingId
	NewPrice  *big.Int
}

type RefundStoredEvent struct {
	Bidder domain.Address
	Amount *big.Int
}

type EventUseCase interface {
	ListingCreated(ctx.Ctx, domain.ChainId, *ListingCreatedEvent, *domain.LogMeta) error
	BidPlaced(ctx.Ctx, domain.ChainId, *BidPlacedEvent, *domain.LogMeta) error
	SaleCompleted(ctx.Ctx, domain.ChainId, *SaleCompletedEvent, *domain.LogMeta) error
	ListingCancelled(ctx.Ctx, domain.ChainId, *ListingCancelledEvent, *domain.LogMeta) error
	PriceUpdated(ctx.Ctx, domain.ChainId, *PriceUpdatedEvent, *domain.LogMeta) error
	RefundStored(ctx.Ctx, domain.ChainId, *RefundStoredEvent, *domain.LogMeta) error
}
