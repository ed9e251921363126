package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockRangeHalve(t *testing.T) {
	r := newBlockRange(0, 100)
	r1, r2 := r.halve()
	assert.Equal(t, "blocks[0-50]", r1.String())
	assert.Equal(t, "blocks[51-100]", r2.String())
}

func TestBlockRangeHalveAdjacent(t *testing.T) {
	r := newBlockRange(10, 11)
	r1, r2 := r.halve()
	assert.Equal(t, "blocks[10-10]", r1.String())
	assert.Equal(t, "blocks[11-11]", r2.String())
}

func TestBlockRangeHalveCoversWholeRange(t *testing.T) {
	r := newBlockRange(1000000, 2000001)
	r1, r2 := r.halve()
	assert.Equal(t, r.from, r1.from)
	assert.Equal(t, r.to, r2.to)
	// halves are contiguous
	assert.Equal(t, r1.to.Uint64()+1, r2.from.Uint64())
}
