package nftitem

import (
	"time"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/metadata"
)

type Id struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
}

type NftItem struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	// token ids can exceed 53 bits, stored as decimal string
	TokenId domain.TokenId `json:"tokenId" bson:"tokenId"`
	// owner changes on every transfer and sale
	Owner domain.Address `json:"owner" bson:"owner"`
	// minter, tokenUri and category are set once at mint and never change
	Minter   domain.Address `json:"minter" bson:"minter"`
	TokenUri string         `json:"tokenUri" bson:"tokenUri"`
	Category string         `json:"category" bson:"category"`
	// fetched once at mint time, best-effort
	Metadata *metadata.Metadata `json:"metadata" bson:"metadata"`
	MintedAt time.Time          `json:"mintedAt" bson:"mintedAt"`
	// provenance
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
}

func (i *NftItem) ToId() Id {
	return Id{
		ChainId:         i.ChainId,
		ContractAddress: i.ContractAddress,
		TokenId:         i.TokenId,
	}
}

type CreatePayload struct {
	ChainId         domain.ChainId     `bson:"chainId"`
	ContractAddress domain.Address     `bson:"contractAddress"`
	TokenId         domain.TokenId     `bson:"tokenId"`
	Owner           domain.Address     `bson:"owner"`
	Minter          domain.Address     `bson:"minter"`
	TokenUri        string             `bson:"tokenUri"`
	Category        string             `bson:"category"`
	Metadata        *metadata.Metadata `bson:"metadata"`
	MintedAt        time.Time          `bson:"mintedAt"`
	BlockNumber     domain.BlockNumber `bson:"blockNumber"`
	TxHash          domain.TxHash      `bson:"txHash"`
}

type PatchablePayload struct {
	Owner *domain.Address `bson:"owner,omitempty"`
}

type Repo interface {
	FindOne(c ctx.Ctx, id Id) (*NftItem, error)
	Count(c ctx.Ctx, id Id) (int, error)
	Upsert(c ctx.Ctx, value CreatePayload) error
	Patch(c ctx.Ctx, id Id, value PatchablePayload) error
}

type Usecase interface {
	FindOne(c ctx.Ctx, id Id) (*NftItem, error)
	SetOwner(c ctx.Ctx, id Id, owner domain.Address) error
}
