package ctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithValue(t *testing.T) {
	c := Background()
	c = WithValue(c, "listingId", "42")
	assert.Equal(t, "42", c.Value("listingId"))
}

func TestWithValues(t *testing.T) {
	c := Background()
	c = WithValues(c, map[string]interface{}{
		"contract": "0xabc",
		"tokenId":  "7",
	})
	assert.Equal(t, "0xabc", c.Value("contract"))
	assert.Equal(t, "7", c.Value("tokenId"))
}

func TestWithCancel(t *testing.T) {
	c, cancel := WithCancel(Background())
	select {
	case <-c.Done():
		t.Fatal("should not be done yet")
	default:
	}
	cancel()
	select {
	case <-c.Done():
	default:
		t.Fatal("should be done after cancel")
	}
}

func TestWithTimeout(t *testing.T) {
	c, cancel := WithTimeout(Background(), time.Millisecond)
	defer cancel()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("should time out")
	}
}
