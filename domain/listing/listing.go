package listing

import (
	"time"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type SaleType string

const (
	SaleTypeFixed   SaleType = "fixed"
	SaleTypeAuction SaleType = "auction"
)

// SaleTypeFromCode maps the contract's enum value to a sale type
func SaleTypeFromCode(code uint8) SaleType {
	if code == 1 {
		return SaleTypeAuction
	}
	return SaleTypeFixed
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
	StatusEnded     Status = "ended"
)

// IsTerminal reports whether status may never change again.
// active -> sold | cancelled | ended, never back.
func (s Status) IsTerminal() bool {
	return s == StatusSold || s == StatusCancelled || s == StatusEnded
}

type Id struct {
	ChainId   domain.ChainId   `json:"chainId" bson:"chainId"`
	ListingId domain.ListingId `json:"listingId" bson:"listingId"`
}

type Listing struct {
	ChainId domain.ChainId `json:"chainId" bson:"chainId"`
	// assigned by the marketplace contract, globally unique, decimal string
	ListingId       domain.ListingId `json:"listingId" bson:"listingId"`
	Type            SaleType         `json:"type" bson:"type"`
	ContractAddress domain.Address   `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId   `json:"tokenId" bson:"tokenId"`
	Seller          domain.Address   `json:"seller" bson:"seller"`
	// price in wei, decimal string
	Price string `json:"price" bson:"price"`
	// auction only
	HighestBid    string         `json:"highestBid,omitempty" bson:"highestBid,omitempty"`
	HighestBidder domain.Address `json:"highestBidder,omitempty" bson:"highestBidder,omitempty"`
	EndTime       *time.Time     `json:"endTime,omitempty" bson:"endTime,omitempty"`
	// set on sale
	Buyer  domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	Status Status         `json:"status" bson:"status"`
	// provenance
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

func (l *Listing) ToId() Id {
	return Id{
		ChainId:   l.ChainId,
		ListingId: l.ListingId,
	}
}

type CreatePayload struct {
	ChainId         domain.ChainId     `bson:"chainId"`
	ListingId       domain.ListingId   `bson:"listingId"`
	Type            SaleType           `bson:"type"`
	ContractAddress domain.Address     `bson:"contractAddress"`
	TokenId         domain.TokenId     `bson:"tokenId"`
	Seller          domain.Address     `bson:"seller"`
	Price           string             `bson:"price"`
	Status          Status             `bson:"status"`
	BlockNumber     domain.BlockNumber `bson:"blockNumber"`
	TxHash          domain.TxHash      `bson:"txHash"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

type PatchablePayload struct {
	Price         string          `bson:"price,omitempty"`
	HighestBid    string          `bson:"highestBid,omitempty"`
	HighestBidder *domain.Address `bson:"highestBidder,omitempty"`
	EndTime       *time.Time      `bson:"endTime,omitempty"`
}

// ClosePayload carries a terminal status transition
type ClosePayload struct {
	Status Status          `bson:"status"`
	Buyer  *domain.Address `bson:"buyer,omitempty"`
}

type Repo interface {
	FindOne(c ctx.Ctx, id Id) (*Listing, error)
	Count(c ctx.Ctx, id Id) (int, error)
	Upsert(c ctx.Ctx, value CreatePayload) error
	Patch(c ctx.Ctx, id Id, value PatchablePayload) error
	// Close applies a terminal status, only while the listing is still
	// active. Returns ErrNotFound when the listing is unknown or already
	// closed, so redelivered close events are no-ops.
	Close(c ctx.Ctx, id Id, value ClosePayload) error
}
