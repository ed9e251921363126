package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func packArgs(t *testing.T, eventName string, vals ...interface{}) []byte {
	data, err := MarketplaceABI.Events[eventName].Inputs.NonIndexed().Pack(vals...)
	require.NoError(t, err)
	return data
}

func hashFromBigInt(v *big.Int) common.Hash {
	return common.BigToHash(v)
}

func TestToListingCreatedLog(t *testing.T) {
	req := require.New(t)

	seller := common.HexToAddress("0x5324a98b506F3265c500f978F3943A1fC6A55fa4")
	nft := common.HexToAddress("0x9438c455b9fC72A71Ad3225e8625Ec66Eb74CfAD")
	l := &types.Log{
		Topics: []common.Hash{
			MarketplaceABI.Events["ListingCreated"].ID,
			hashFromBigInt(big.NewInt(42)),
			common.BytesToHash(seller.Bytes()),
			common.BytesToHash(nft.Bytes()),
		},
		Data: packArgs(t, "ListingCreated", big.NewInt(7), uint8(1), big.NewInt(1000000000000000000)),
	}

	decoded, err := ToListingCreatedLog(l)
	req.NoError(err)
	expected := &ListingCreatedLog{
		ListingId:   big.NewInt(42),
		Seller:      seller,
		NftContract: nft,
		TokenId:     big.NewInt(7),
		SaleType:    1,
		Price:       big.NewInt(1000000000000000000),
	}
	req.Equal(expected, decoded)
}

func TestToBidPlacedLog(t *testing.T) {
	req := require.New(t)

	bidder := common.HexToAddress("0x822d3c3D8ed080a041f861c2476f583E234920BB")
	l := &types.Log{
		Topics: []common.Hash{
			MarketplaceABI.Events["BidPlaced"].ID,
			hashFromBigInt(big.NewInt(42)),
			common.BytesToHash(bidder.Bytes()),
		},
		Data: packArgs(t, "BidPlaced", big.NewInt(2000000000000000000)),
	}

	decoded, err := ToBidPlacedLog(l)
	req.NoError(err)
	req.Equal(big.NewInt(42), decoded.ListingId)
	req.Equal(bidder, decoded.Bidder)
	req.Equal(big.NewInt(2000000000000000000), decoded.Amount)
}

func TestToSaleCompletedLog(t *testing.T) {
	req := require.New(t)

	buyer := common.HexToAddress("0xfB44Bb953cd20a2db39427c6039b95B6BBa0f1C1")
	l := &types.Log{
		Topics: []common.Hash{
			MarketplaceABI.Events["SaleCompleted"].ID,
			hashFromBigInt(big.NewInt(9)),
			common.BytesToHash(buyer.Bytes()),
		},
		Data: packArgs(t, "SaleCompleted", big.NewInt(3000000000000000000)),
	}

	decoded, err := ToSaleCompletedLog(l)
	req.NoError(err)
	req.Equal(big.NewInt(9), decoded.ListingId)
	req.Equal(buyer, decoded.Buyer)
	req.Equal(big.NewInt(3000000000000000000), decoded.Amount)
}

func TestToListingCancelledLog(t *testing.T) {
	req := require.New(t)

	l := &types.Log{
		Topics: []common.Hash{
			MarketplaceABI.Events["ListingCancelled"].ID,
			hashFromBigInt(big.NewInt(13)),
		},
	}

	decoded, err := ToListingCancelledLog(l)
	req.NoError(err)
	req.Equal(big.NewInt(13), decoded.ListingId)
}

func TestToPriceUpdatedLog(t *testing.T) {
	req := require.New(t)

	l := &types.Log{
		Topics: []common.Hash{
			MarketplaceABI.Events["PriceUpdated"].ID,
			hashFromBigInt(big.NewInt(13)),
		},
		Data: packArgs(t, "PriceUpdated", big.NewInt(500)),
	}

	decoded, err := ToPriceUpdatedLog(l)
	req.NoError(err)
	req.Equal(big.NewInt(13), decoded.ListingId)
	req.Equal(big.NewInt(500), decoded.NewPrice)
}
