package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialGrowthCappedAtLimit(t *testing.T) {
	bo := NewExponential(time.Millisecond, 4*time.Millisecond)
	ctx := context.Background()

	assert.Equal(t, time.Millisecond, bo.NextDuration)
	assert.NoError(t, bo.Backoff(ctx))
	assert.Equal(t, 2*time.Millisecond, bo.NextDuration)
	assert.NoError(t, bo.Backoff(ctx))
	assert.Equal(t, 4*time.Millisecond, bo.NextDuration)
	assert.NoError(t, bo.Backoff(ctx))
	assert.Equal(t, 4*time.Millisecond, bo.NextDuration)

	bo.Reset()
	assert.Equal(t, time.Millisecond, bo.NextDuration)
}

func TestBackoffReturnsOnCancelledContext(t *testing.T) {
	bo := NewExponential(time.Minute, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bo.Backoff(ctx)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, time.Minute, bo.NextDuration)
}
