package domain

import (
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
)

type WebResourceReaderRepository interface {
	Get(ctx.Ctx, string) ([]byte, error)
}

type WebResourceUseCase interface {
	Get(ctx.Ctx, string) ([]byte, error)
	GetJson(ctx.Ctx, string) ([]byte, error)
}
