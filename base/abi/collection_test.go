package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestToTokenMintedLog(t *testing.T) {
	req := require.New(t)

	minter := common.HexToAddress("0x5324a98b506F3265c500f978F3943A1fC6A55fa4")
	data, err := CollectionABI.Events["TokenMinted"].Inputs.NonIndexed().Pack("ipfs://QmHash/7", "art")
	req.NoError(err)
	l := &types.Log{
		Topics: []common.Hash{
			CollectionABI.Events["TokenMinted"].ID,
			common.BytesToHash(minter.Bytes()),
			common.BigToHash(big.NewInt(7)),
		},
		Data: data,
	}

	decoded, err := ToTokenMintedLog(l)
	req.NoError(err)
	expected := &TokenMintedLog{
		Minter:   minter,
		TokenId:  big.NewInt(7),
		TokenURI: "ipfs://QmHash/7",
		Category: "art",
	}
	req.Equal(expected, decoded)
}

func TestToTransferLog(t *testing.T) {
	req := require.New(t)

	from := common.HexToAddress("0x9438c455b9fC72A71Ad3225e8625Ec66Eb74CfAD")
	to := common.HexToAddress("0x822d3c3D8ed080a041f861c2476f583E234920BB")
	l := &types.Log{
		Topics: []common.Hash{
			CollectionABI.Events["Transfer"].ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
			common.BigToHash(big.NewInt(7)),
		},
	}

	decoded, err := ToTransferLog(l)
	req.NoError(err)
	req.Equal(from, decoded.From)
	req.Equal(to, decoded.To)
	req.Equal(big.NewInt(7), decoded.TokenId)
}
