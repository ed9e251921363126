package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type PatchableItem struct {
		Name        *string `bson:"name,omitempty"`
		Supply      *int    `bson:"supply,omitempty"`
		Owner       string  `bson:"owner"`
		TokenUri    string  `bson:"tokenUri"`
		hidden      string  `bson:"hidden"`
		SkipMe      string  `bson:"-"`
		ImageUrl    *string `bson:"imageUrl,omitempty"`
		ContentType string  `bson:"contentType"`
	}

	patchable := &PatchableItem{}
	patchable.Name = ptr.String("")
	patchable.Supply = ptr.Int(10)
	patchable.TokenUri = "ipfs://QmHash/7"
	patchable.SkipMe = "never stored"

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			// explicitly set pointers survive even when pointing at zero values
			"name":   "",
			"supply": 10,
			// field owner is empty, so ignore
			"tokenUri": "ipfs://QmHash/7",
		},
		updater,
	)
}
