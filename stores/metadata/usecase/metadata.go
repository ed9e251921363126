package usecase

import (
	"encoding/json"
	"time"

	"github.com/coocood/freecache"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/metadata"
)

type MetadataUseCaseCfg struct {
	WebResource domain.WebResourceUseCase
	CtxTimeout  time.Duration
	// cache size in megabytes, several mints of the same drop tend to
	// share a metadata host
	CacheSize int
	CacheTtl  time.Duration
}

type metadataUseCase struct {
	webResource domain.WebResourceUseCase
	ctxTimeout  time.Duration
	cache       *freecache.Cache
	cacheTtl    time.Duration
}

func NewMetadataUseCase(cfg *MetadataUseCaseCfg) metadata.UseCase {
	return &metadataUseCase{
		webResource: cfg.WebResource,
		ctxTimeout:  cfg.CtxTimeout,
		cache:       freecache.NewCache(cfg.CacheSize * 1024 * 1024),
		cacheTtl:    cfg.CacheTtl,
	}
}

// Fetch never fails, a token with an unreachable or malformed tokenUri
// still gets indexed with empty metadata
func (u *metadataUseCase) Fetch(c bCtx.Ctx, tokenUri string) *metadata.Metadata {
	if tokenUri == "" {
		return metadata.Empty()
	}

	data, err := u.getJson(c, tokenUri)
	if err != nil {
		c.WithFields(log.Fields{
			"tokenUri": tokenUri,
			"err":      err,
		}).Warn("failed to fetch metadata")
		return metadata.Empty()
	}

	meta := metadata.Empty()
	if err := json.Unmarshal(data, meta); err != nil {
		c.WithFields(log.Fields{
			"tokenUri": tokenUri,
			"err":      err,
		}).Warn("failed to unmarshal metadata")
		return metadata.Empty()
	}
	return meta
}

func (u *metadataUseCase) getJson(c bCtx.Ctx, tokenUri string) ([]byte, error) {
	key := []byte(tokenUri)
	if val, err := u.cache.Get(key); err == nil {
		return val, nil
	}

	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()

	data, err := u.webResource.GetJson(ctx, tokenUri)
	if err != nil {
		return nil, err
	}

	if err := u.cache.Set(key, data, int(u.cacheTtl.Seconds())); err != nil {
		c.WithField("err", err).Warn("cache.Set failed")
	}
	return data, nil
}
