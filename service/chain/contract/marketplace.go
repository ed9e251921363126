package contract

import (
	"math/big"
	"time"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/abi"
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/chain"
)

// ListingState mirrors the marketplace contract's listing storage.
// Creation events omit endTime and terminal flags, so both the live
// watcher and the backfill read them from here.
type ListingState struct {
	Seller        common.Address
	NftContract   common.Address
	TokenId       *big.Int
	Price         *big.Int
	SaleType      uint8
	EndTime       *big.Int
	HighestBidder common.Address
	HighestBid    *big.Int
	Sold          bool
	Cancelled     bool
}

// EndTimeAsTime converts the contract's unix end time, nil when unset
func (s *ListingState) EndTimeAsTime() *time.Time {
	if s.EndTime == nil || s.EndTime.Sign() <= 0 {
		return nil
	}
	t := time.Unix(s.EndTime.Int64(), 0).UTC()
	return &t
}

// HasEnded reports whether an auction listing's end time has passed
func (s *ListingState) HasEnded(now time.Time) bool {
	if s.EndTime == nil || s.EndTime.Sign() <= 0 {
		return false
	}
	return now.Unix() >= s.EndTime.Int64()
}

type MarketplaceContract interface {
	GetListing(ctx bCtx.Ctx, chainId int32, addr string, listingId *big.Int) (*ListingState, error)
}

type Marketplace struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewMarketplace(chainService chain.Client) *Marketplace {
	return &Marketplace{
		chainService: chainService,
		abi:          baseabi.MarketplaceABI,
	}
}

func (m *Marketplace) GetListing(ctx bCtx.Ctx, chainId int32, addr string, listingId *big.Int) (*ListingState, error) {
	method := "getListing"
	unpacked, err := m.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, m.abi, method, listingId)
	if err != nil {
		return nil, err
	}
	return &ListingState{
		Seller:        unpacked[0].(common.Address),
		NftContract:   unpacked[1].(common.Address),
		TokenId:       unpacked[2].(*big.Int),
		Price:         unpacked[3].(*big.Int),
		SaleType:      unpacked[4].(uint8),
		EndTime:       unpacked[5].(*big.Int),
		HighestBidder: unpacked[6].(common.Address),
		HighestBid:    unpacked[7].(*big.Int),
		Sold:          unpacked[8].(bool),
		Cancelled:     unpacked[9].(bool),
	}, nil
}
