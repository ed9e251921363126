package collection

import (
	"time"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type CollectionId struct {
	domain.ChainId `json:"chainId" bson:"chainId"`
	domain.Address `json:"address" bson:"address"`
}

type Collection struct {
	ChainId domain.ChainId `json:"chainId" bson:"chainId"`
	Address domain.Address `json:"address" bson:"address"`
	Creator domain.Address `json:"creator" bson:"creator"`
	Name    string         `json:"name" bson:"name"`
	Symbol  string         `json:"symbol" bson:"symbol"`
	// immutable deploy parameters
	MaxSupply    int64 `json:"maxSupply" bson:"maxSupply"`
	MaxPerWallet int64 `json:"maxPerWallet" bson:"maxPerWallet"`
	// mutable on-chain settings, kept in sync by settings events.
	// mint price in wei, decimal string
	MintPrice         string           `json:"mintPrice" bson:"mintPrice"`
	PublicMintEnabled bool             `json:"publicMintEnabled" bson:"publicMintEnabled"`
	Collaborators     []domain.Address `json:"collaborators" bson:"collaborators"`
	// provenance
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

func (c *Collection) ToId() CollectionId {
	return CollectionId{
		ChainId: c.ChainId,
		Address: c.Address,
	}
}

type CreatePayload struct {
	ChainId           domain.ChainId     `bson:"chainId"`
	Address           domain.Address     `bson:"address"`
	Creator           domain.Address     `bson:"creator"`
	Name              string             `bson:"name"`
	Symbol            string             `bson:"symbol"`
	MaxSupply         int64              `bson:"maxSupply"`
	MaxPerWallet      int64              `bson:"maxPerWallet"`
	MintPrice         string             `bson:"mintPrice"`
	PublicMintEnabled bool               `bson:"publicMintEnabled"`
	Collaborators     []domain.Address   `bson:"collaborators"`
	BlockNumber       domain.BlockNumber `bson:"blockNumber"`
	TxHash            domain.TxHash      `bson:"txHash"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

type UpdatePayload struct {
	MintPrice string `bson:"mintPrice,omitempty"`
	// use pointer to prevent be ignored when making bson
	PublicMintEnabled *bool `bson:"publicMintEnabled"`
}

type findAllOptions struct {
	SortBy    *string
	SortDir   *domain.SortDir
	Offset    *int32
	Limit     *int32
	ChainId   *domain.ChainId
	Addresses *[]domain.Address
	Creator   *domain.Address
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

func WithSort(sortby string, sortdir domain.SortDir) FindAllOptions {
	return func(options *findAllOptions) error {
		options.SortBy = &sortby
		options.SortDir = &sortdir
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithChainId(chainId domain.ChainId) FindAllOptions {
	return func(options *findAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithAddresses(addresses []domain.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		_addresses := make([]domain.Address, len(addresses))
		for i, address := range addresses {
			_addresses[i] = address.ToLower()
		}
		options.Addresses = &_addresses
		return nil
	}
}

func WithCreator(creator domain.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Creator = creator.ToLowerPtr()
		return nil
	}
}

type Repo interface {
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Collection, error)
	Count(c ctx.Ctx, opts ...FindAllOptions) (int, error)
	FindOne(c ctx.Ctx, id CollectionId) (*Collection, error)
	Upsert(c ctx.Ctx, value CreatePayload) error
	Update(c ctx.Ctx, id CollectionId, value UpdatePayload) error
	AddCollaborator(c ctx.Ctx, id CollectionId, collaborator domain.Address) error
	RemoveCollaborator(c ctx.Ctx, id CollectionId, collaborator domain.Address) error
}

type Usecase interface {
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Collection, error)
	FindOne(c ctx.Ctx, id CollectionId) (*Collection, error)
}
