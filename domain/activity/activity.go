package activity

import (
	"time"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type Type string

const (
	TypeMint        Type = "mint"
	TypeTransfer    Type = "transfer"
	TypeList        Type = "list"
	TypeBid         Type = "bid"
	TypeSale        Type = "sale"
	TypeCancel      Type = "cancel"
	TypePriceUpdate Type = "price_update"
)

// Activity is the append-only audit log of every state-changing event.
// Records carry enough fields to rebuild a per-user or per-token timeline.
type Activity struct {
	ChainId         domain.ChainId   `json:"chainId" bson:"chainId"`
	Type            Type             `json:"type" bson:"type"`
	ContractAddress domain.Address   `json:"contractAddress,omitempty" bson:"contractAddress,omitempty"`
	TokenId         domain.TokenId   `json:"tokenId,omitempty" bson:"tokenId,omitempty"`
	ListingId       domain.ListingId `json:"listingId,omitempty" bson:"listingId,omitempty"`
	// the account performing the action: minter, sender, seller, bidder, buyer
	Account domain.Address `json:"account" bson:"account"`
	// counterparty if any: transfer recipient, sale seller
	To domain.Address `json:"to,omitempty" bson:"to,omitempty"`
	// price or bid amount in wei, decimal string
	Price string    `json:"price,omitempty" bson:"price,omitempty"`
	Time  time.Time `json:"time" bson:"time"`
	// provenance
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
}

type findAllOptions struct {
	ChainId         *domain.ChainId
	Type            *Type
	ContractAddress *domain.Address
	TokenId         *domain.TokenId
	ListingId       *domain.ListingId
	Account         *domain.Address
}

type FindAllOptions func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptions) (findAllOptions, error) {
	res := findAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptions {
	return func(options *findAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithType(typ Type) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Type = &typ
		return nil
	}
}

func WithToken(contract domain.Address, tokenId domain.TokenId) FindAllOptions {
	return func(options *findAllOptions) error {
		options.ContractAddress = contract.ToLowerPtr()
		options.TokenId = &tokenId
		return nil
	}
}

func WithListingId(listingId domain.ListingId) FindAllOptions {
	return func(options *findAllOptions) error {
		options.ListingId = &listingId
		return nil
	}
}

func WithAccount(account domain.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Account = account.ToLowerPtr()
		return nil
	}
}

type Repo interface {
	Insert(c ctx.Ctx, value *Activity) error
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Activity, error)
	Count(c ctx.Ctx, opts ...FindAllOptions) (int, error)
}
