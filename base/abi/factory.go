package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var FactoryABI abi.ABI

var factoryABI = `[{"type":"event","anonymous":false,"name":"CollectionCreated","inputs":[{"type":"address","name":"creator","indexed":true},{"type":"address","name":"collection","indexed":true},{"type":"string","name":"name"},{"type":"string","name":"symbol"},{"type":"uint256","name":"maxSupply"},{"type":"uint256","name":"maxPerWallet"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(factoryABI))
	if err != nil {
		panic("Failed to parse factory abi")
	}
	FactoryABI = _abi
}

type CollectionCreatedLog struct {
	Creator      common.Address // indexed
	Collection   common.Address // indexed
	Name         string
	Symbol       string
	MaxSupply    *big.Int
	MaxPerWallet *big.Int
}

func ToCollectionCreatedLog(log *types.Log) (*CollectionCreatedLog, error) {
	var created CollectionCreatedLog
	if err := FactoryABI.UnpackIntoInterface(&created, "CollectionCreated", log.Data); err != nil {
		return nil, err
	}
	created.Creator = common.BytesToAddress(log.Topics[1].Bytes())
	created.Collection = common.BytesToAddress(log.Topics[2].Bytes())
	return &created, nil
}
