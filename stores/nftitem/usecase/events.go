package usecase

import (
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/activity"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/metadata"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/nftitem"
)

type NftItemEventUseCaseCfg struct {
	NftItemRepo     nftitem.Repo
	ActivityRepo    activity.Repo
	MetadataUseCase metadata.UseCase
	// custody moves to the marketplace when a token is listed, such
	// transfers do not change the owner of record
	MarketplaceAddress domain.Address
}

type nftItemEventUseCase struct {
	nftitemRepo        nftitem.Repo
	activityRepo       activity.Repo
	metadataUC         metadata.UseCase
	marketplaceAddress domain.Address
}

func NewNftItemEventUseCase(cfg *NftItemEventUseCaseCfg) nftitem.EventUseCase {
	return &nftItemEventUseCase{
		nftitemRepo:        cfg.NftItemRepo,
		activityRepo:       cfg.ActivityRepo,
		metadataUC:         cfg.MetadataUseCase,
		marketplaceAddress: cfg.MarketplaceAddress.ToLower(),
	}
}

func (u *nftItemEventUseCase) TokenMinted(ctx bCtx.Ctx, chainId domain.ChainId, e *nftitem.TokenMintedEvent, lMeta *domain.LogMeta) error {
	tokenId := domain.TokenId(e.TokenId.String())
	contract := lMeta.ContractAddress.ToLower()

	// best effort, a dead metadata host never drops the mint
	meta := u.metadataUC.Fetch(ctx, e.TokenUri)

	payload := nftitem.CreatePayload{
		ChainId:         chainId,
		ContractAddress: contract,
		TokenId:         tokenId,
		Owner:           e.Minter.ToLower(),
		Minter:          e.Minter.ToLower(),
		TokenUri:        e.TokenUri,
		Category:        e.Category,
		Metadata:        meta,
		MintedAt:        lMeta.BlockTime,
		BlockNumber:     lMeta.BlockNumber,
		TxHash:          lMeta.TxHash,
	}
	if err := u.nftitemRepo.Upsert(ctx, payload); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"contract": contract,
			"tokenId":  tokenId,
		}).Error("nftitemRepo.Upsert failed")
		return err
	}

	act := &activity.Activity{
		ChainId:         chainId,
		Type:            activity.TypeMint,
		ContractAddress: contract,
		TokenId:         tokenId,
		Account:         e.Minter.ToLower(),
		Time:            lMeta.BlockTime,
		BlockNumber:     lMeta.BlockNumber,
		TxHash:          lMeta.TxHash,
		LogIndex:        lMeta.LogIndex,
	}
	if err := u.activityRepo.Insert(ctx, act); err != nil {
		ctx.WithField("err", err).Error("activityRepo.Insert failed")
		return err
	}

	return nil
}

func (u *nftItemEventUseCase) Transfer(ctx bCtx.Ctx, chainId domain.ChainId, e *nftitem.TransferEvent, lMeta *domain.LogMeta) error {
	// the mint branch already wrote ownership for the mint's own transfer
	if e.From.IsZero() {
		return nil
	}

	// listing escrow, the seller stays the owner of record until sold
	if e.To.ToLower() == u.marketplaceAddress {
		return nil
	}

	id := nftitem.Id{
		ChainId:         chainId,
		ContractAddress: lMeta.ContractAddress.ToLower(),
		TokenId:         domain.TokenId(e.TokenId.String()),
	}
	if err := u.nftitemRepo.Patch(ctx, id, nftitem.PatchablePayload{Owner: e.To.ToLowerPtr()}); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("nftitemRepo.Patch failed")
		return err
	}

	act := &activity.Activity{
		ChainId:         chainId,
		Type:            activity.TypeTransfer,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Account:         e.From.ToLower(),
		To:              e.To.ToLower(),
		Time:            lMeta.BlockTime,
		BlockNumber:     lMeta.BlockNumber,
		TxHash:          lMeta.TxHash,
		LogIndex:        lMeta.LogIndex,
	}
	if err := u.activityRepo.Insert(ctx, act); err != nil {
		ctx.WithField("err", err).Error("activityRepo.Insert failed")
		return err
	}

	return nil
}
