package listing

import (
	"time"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

// Bid is an append-only audit record. Never mutated or deleted.
type Bid struct {
	ChainId     domain.ChainId     `json:"chainId" bson:"chainId"`
	ListingId   domain.ListingId   `json:"listingId" bson:"listingId"`
	Bidder      domain.Address     `json:"bidder" bson:"bidder"`
	Amount      string             `json:"amount" bson:"amount"`
	Time        time.Time          `json:"time" bson:"time"`
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
}

type BidRepo interface {
	Insert(c ctx.Ctx, value *Bid) error
	FindAll(c ctx.Ctx, id Id) ([]*Bid, error)
	Count(c ctx.Ctx, id Id) (int, error)
}
