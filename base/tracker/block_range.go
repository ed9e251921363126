package tracker

import (
	"fmt"
	"math/big"
)

var (
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// blockRange is an inclusive [from, to] span of block numbers
type blockRange struct {
	from *big.Int
	to   *big.Int
}

func newBlockRange(from, to uint64) *blockRange {
	return &blockRange{
		from: new(big.Int).SetUint64(from),
		to:   new(big.Int).SetUint64(to),
	}
}

// halve cuts the range into two contiguous halves, used when a provider
// rejects a getLogs query for covering too many logs
func (r *blockRange) halve() (*blockRange, *blockRange) {
	mid := new(big.Int).Add(r.from, r.to)
	mid.Div(mid, big2)
	lower := &blockRange{from: r.from, to: mid}
	upper := &blockRange{from: new(big.Int).Add(mid, big1), to: r.to}
	return lower, upper
}

func (r *blockRange) String() string {
	return fmt.Sprintf("blocks[%s-%s]", r.from.String(), r.to.String())
}
