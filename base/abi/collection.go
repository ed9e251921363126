package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var CollectionABI abi.ABI

var collectionABI = `[{"type":"event","anonymous":false,"name":"TokenMinted","inputs":[{"type":"address","name":"minter","indexed":true},{"type":"uint256","name":"tokenId","indexed":true},{"type":"string","name":"tokenURI"},{"type":"string","name":"category"}]},{"type":"event","anonymous":false,"name":"Transfer","inputs":[{"type":"address","name":"from","indexed":true},{"type":"address","name":"to","indexed":true},{"type":"uint256","name":"tokenId","indexed":true}]},{"type":"event","anonymous":false,"name":"PublicMintToggled","inputs":[{"type":"bool","name":"enabled"}]},{"type":"event","anonymous":false,"name":"CollaboratorAdded","inputs":[{"type":"address","name":"collaborator","indexed":true}]},{"type":"event","anonymous":false,"name":"CollaboratorRemoved","inputs":[{"type":"address","name":"collaborator","indexed":true}]},{"type":"event","anonymous":false,"name":"MintPriceUpdated","inputs":[{"type":"uint256","name":"newPrice"}]},{"type":"function","name":"tokenURI","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"tokenId"}],"outputs":[{"type":"string"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(collectionABI))
	if err != nil {
		panic("Failed to parse collection abi")
	}
	CollectionABI = _abi
}

type TokenMintedLog struct {
	Minter   common.Address // indexed
	TokenId  *big.Int       // indexed
	TokenURI string
	Category string
}

type TransferLog struct {
	From    common.Address // indexed
	To      common.Address // indexed
	TokenId *big.Int       // indexed
}

type PublicMintToggledLog struct {
	Enabled bool
}

type CollaboratorAddedLog struct {
	Collaborator common.Address // indexed
}

type CollaboratorRemovedLog struct {
	Collaborator common.Address // indexed
}

type MintPriceUpdatedLog struct {
	NewPrice *big.Int
}

func ToTokenMintedLog(log *types.Log) (*TokenMintedLog, error) {
	var minted TokenMintedLog
	if err := CollectionABI.UnpackIntoInterface(&minted, "TokenMinted", log.Data); err != nil {
		return nil, err
	}
	minted.Minter = common.BytesToAddress(log.Topics[1].Bytes())
	minted.TokenId = new(big.Int).SetBytes(log.Topics[2].Bytes())
	return &minted, nil
}

func ToTransferLog(log *types.Log) (*TransferLog, error) {
	// all three inputs are indexed, nothing lives in log.Data
	transfer := TransferLog{
		From:    common.BytesToAddress(log.Topics[1].Bytes()),
		To:      common.BytesToAddress(log.Topics[2].Bytes()),
		TokenId: new(big.Int).SetBytes(log.Topics[3].Bytes()),
	}
	return &transfer, nil
}

func ToPublicMintToggledLog(log *types.Log) (*PublicMintToggledLog, error) {
	var toggled PublicMintToggledLog
	if err := CollectionABI.UnpackIntoInterface(&toggled, "PublicMintToggled", log.Data); err != nil {
		return nil, err
	}
	return &toggled, nil
}

func ToCollaboratorAddedLog(log *types.Log) (*CollaboratorAddedLog, error) {
	added := CollaboratorAddedLog{
		Collaborator: common.BytesToAddress(log.Topics[1].Bytes()),
	}
	return &added, nil
}

func ToCollaboratorRemovedLog(log *types.Log) (*CollaboratorRemovedLog, error) {
	removed := CollaboratorRemovedLog{
		Collaborator: common.BytesToAddress(log.Topics[1].Bytes()),
	}
	return &removed, nil
}

func ToMintPriceUpdatedLog(log *types.Log) (*MintPriceUpdatedLog, error) {
	var updated MintPriceUpdatedLog
	if err := CollectionABI.UnpackIntoInterface(&updated, "MintPriceUpdated", log.Data); err != nil {
		return nil, err
	}
	return &updated, nil
}
