package domain

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/xerrors"
)

var (
	Big1 = big.NewInt(1)
	Big2 = big.NewInt(2)
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) IsZero() bool {
	return a.ToLower() == EmptyAddress
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) ToHexString() (string, error) {
	id, ok := new(big.Int).SetString(i.String(), 10)
	if !ok {
		return "", xerrors.Errorf("invalid id %s", i)
	}
	return fmt.Sprintf("%064x", id), nil
}

type ListingId string

func (i ListingId) String() string {
	return string(i)
}

type BlockNumber uint64

type TxHash string

type BlockHash string

func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}
