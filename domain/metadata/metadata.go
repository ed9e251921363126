package metadata

import (
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
)

// Attribute is one trait of a token metadata object
type Attribute struct {
	TraitType string      `json:"trait_type" bson:"trait_type"`
	Value     interface{} `json:"value" bson:"value"`
}

// Metadata is the token-URI JSON document. Empty() is the best-effort
// fallback when the fetch fails, so a mint is never dropped over metadata.
type Metadata struct {
	Name        string      `json:"name,omitempty" bson:"name,omitempty"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Image       string      `json:"image,omitempty" bson:"image,omitempty"`
	ExternalUrl string      `json:"external_url,omitempty" bson:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

func Empty() *Metadata {
	return &Metadata{}
}

type UseCase interface {
	// Fetch resolves tokenUri to a metadata object. It never returns an
	// error for unreachable or malformed metadata, only an empty object.
	Fetch(c ctx.Ctx, tokenUri string) *Metadata
}
