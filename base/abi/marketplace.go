package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var MarketplaceABI abi.ABI

var marketplaceABI = `[{"type":"event","anonymous":false,"name":"ListingCreated","inputs":[{"type":"uint256","name":"listingId","indexed":true},{"type":"address","name":"seller","indexed":true},{"type":"address","name":"nftContract","indexed":true},{"type":"uint256","name":"tokenId"},{"type":"uint8","name":"saleType"},{"type":"uint256","name":"price"}]},{"type":"event","anonymous":false,"name":"BidPlaced","inputs":[{"type":"uint256","name":"listingId","indexed":true},{"type":"address","name":"bidder","indexed":true},{"type":"uint256","name":"amount"}]},{"type":"event","anonymous":false,"name":"SaleCompleted","inputs":[{"type":"uint256","name":"listingId","indexed":true},{"type":"address","name":"buyer","indexed":true},{"type":"uint256","name":"amount"}]},{"type":"event","anonymous":false,"name":"ListingCancelled","inputs":[{"type":"uint256","name":"listingId","indexed":true}]},{"type":"event","anonymous":false,"name":"PriceUpdated","inputs":[{"type":"uint256","name":"listingId","indexed":true},{"type":"uint256","name":"newPrice"}]},{"type":"event","anonymous":false,"name":"RefundStored","inputs":[{"type":"address","name":"bidder","indexed":true},{"type":"uint256","name":"amount"}]},{"type":"function","name":"getListing","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"listingId"}],"outputs":[{"type":"address","name":"seller"},{"type":"address","name":"nftContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"price"},{"type":"uint8","name":"saleType"},{"type":"uint256","name":"endTime"},{"type":"address","name":"highestBidder"},{"type":"uint256","name":"highestBid"},{"type":"bool","name":"sold"},{"type":"bool","name":"cancelled"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(marketplaceABI))
	if err != nil {
		panic("Failed to parse marketplace abi")
	}
	MarketplaceABI = _abi
}

type ListingCreatedLog struct {
	ListingId   *big.Int       // indexed
	Seller      common.Address // indexed
	NftContract common.Address // indexed
	TokenId     *big.Int
	SaleType    uint8
	Price       *big.Int
}

type BidPlacedLog struct {
	ListingId *big.Int       // indexed
	Bidder    common.Address // indexed
	Amount    *big.Int
}

type SaleCompletedLog struct {
	ListingId *big.Int       // indexed
	Buyer     common.Address // indexed
	Amount    *big.Int
}

type ListingCancelledLog struct {
	ListingId *big.Int // indexed
}

type PriceUpdatedLog struct {
	ListingId *big.Int // indexed
	NewPrice  *big.Int
}

type RefundStoredLog struct {
	Bidder common.Address // indexed
	Amount *big.Int
}

func ToListingCreatedLog(log *types.Log) (*ListingCreatedLog, error) {
	var created ListingCreatedLog
	if err := MarketplaceABI.UnpackIntoInterface(&created, "ListingCreated", log.Data); err != nil {
		return nil, err
	}
	created.ListingId = new(big.Int).SetBytes(log.Topics[1].Bytes())
	created.Seller = common.BytesToAddress(log.Topics[2].Bytes())
	created.NftContract = common.BytesToAddress(log.Topics[3].Bytes())
	return &created, nil
}

func ToBidPlacedLog(log *types.Log) (*BidPlacedLog, error) {
	var bid BidPlacedLog
	if err := MarketplaceABI.UnpackIntoInterface(&bid, "BidPlaced", log.Data); err != nil {
		return nil, err
	}
	bid.ListingId = new(big.Int).SetBytes(log.Topics[1].Bytes())
	bid.Bidder = common.BytesToAddress(log.Topics[2].Bytes())
	return &bid, nil
}

func ToSaleCompletedLog(log *types.Log) (*SaleCompletedLog, error) {
	var sale SaleCompletedLog
	if err := MarketplaceABI.UnpackIntoInterface(&sale, "SaleCompleted", log.Data); err != nil {
		return nil, err
	}
	sale.ListingId = new(big.Int).SetBytes(log.Topics[1].Bytes())
	sale.Buyer = common.BytesToAddress(log.Topics[2].Bytes())
	return &sale, nil
}

func ToListingCancelledLog(log *types.Log) (*ListingCancelledLog, error) {
	cancelled := ListingCancelledLog{
		ListingId: new(big.Int).SetBytes(log.Topics[1].Bytes()),
	}
	return &cancelled, nil
}

func ToPriceUpdatedLog(log *types.Log) (*PriceUpdatedLog, error) {
	var updated PriceUpdatedLog
	if err := MarketplaceABI.UnpackIntoInterface(&updated, "PriceUpdated", log.Data); err != nil {
		return nil, err
	}
	updated.ListingId = new(big.Int).SetBytes(log.Topics[1].Bytes())
	return &updated, nil
}

func ToRefundStoredLog(log *types.Log) (*RefundStoredLog, error) {
	var refund RefundStoredLog
	if err := MarketplaceABI.UnpackIntoInterface(&refund, "RefundStored", log.Data); err != nil {
		return nil, err
	}
	refund.Bidder = common.BytesToAddress(log.Topics[1].Bytes())
	return &refund, nil
}
