package tracker

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/abi"
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/collection"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/nftitem"
)

var (
	tokenMintedSig         = abi.CollectionABI.Events["TokenMinted"].ID
	transferSig            = abi.CollectionABI.Events["Transfer"].ID
	publicMintToggledSig   = abi.CollectionABI.Events["PublicMintToggled"].ID
	collaboratorAddedSig   = abi.CollectionABI.Events["CollaboratorAdded"].ID
	collaboratorRemovedSig = abi.CollectionABI.Events["CollaboratorRemoved"].ID
	mintPriceUpdatedSig    = abi.CollectionABI.Events["MintPriceUpdated"].ID
)

type CollectionEventHandlerCfg struct {
	ChainId           int64
	NftItemUseCase    nftitem.EventUseCase
	CollectionUseCase collection.EventUseCase
}

type CollectionEventHandler struct {
	chainId      int64
	nftitemUC    nftitem.EventUseCase
	collectionUC collection.EventUseCase
}

func NewCollectionEventHandler(cfg *CollectionEventHandlerCfg) EventHandler {
	return &CollectionEventHandler{
		chainId:      cfg.ChainId,
		nftitemUC:    cfg.NftItemUseCase,
		collectionUC: cfg.CollectionUseCase,
	}
}

func (h *CollectionEventHandler) GetFilterTopics() [][]common.Hash {
	return [][]common.Hash{
		{tokenMintedSig, transferSig, publicMintToggledSig, collaboratorAddedSig, collaboratorRemovedSig, mintPriceUpdatedSig},
	}
}

func (h *CollectionEventHandler) ProcessEvents(ctx bCtx.Ctx, logs []logWithBlockTime) error {
	// a broken log never blocks the rest of the batch
	for _, log := range logs {
		switch log.Topics[0] {
		case tokenMintedSig:
			e, err := toTokenMintedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse TokenMinted log")
				continue
			}
			err = h.nftitemUC.TokenMinted(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("nftitemUC.TokenMinted failed")
				continue
			}
		case transferSig:
			e, err := toTransferEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse Transfer log")
				continue
			}
			err = h.nftitemUC.Transfer(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("nftitemUC.Transfer failed")
				continue
			}
		case publicMintToggledSig:
			e, err := toPublicMintToggledEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse PublicMintToggled log")
				continue
			}
			err = h.collectionUC.PublicMintToggled(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("collectionUC.PublicMintToggled failed")
				continue
			}
		case collaboratorAddedSig:
			e, err := toCollaboratorAddedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse CollaboratorAdded log")
				continue
			}
			err = h.collectionUC.CollaboratorAdded(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("collectionUC.CollaboratorAdded failed")
				continue
			}
		case collaboratorRemovedSig:
			e, err := toCollaboratorRemovedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse CollaboratorRemoved log")
				continue
			}
			err = h.collectionUC.CollaboratorRemoved(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("collectionUC.CollaboratorRemoved failed")
				continue
			}
		case mintPriceUpdatedSig:
			e, err := toMintPriceUpdatedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse MintPriceUpdated log")
				continue
			}
			err = h.collectionUC.MintPriceUpdated(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("collectionUC.MintPriceUpdated failed")
				continue
			}
		default:
			ctx.WithField("signature", log.Topics[0]).Warn("unrecognized signature, skipping")
		}
	}
	return nil
}

func toTokenMintedEvent(log *logWithBlockTime) (*nftitem.TokenMintedEvent, error) {
	l, err := abi.ToTokenMintedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &nftitem.TokenMintedEvent{
		Minter:   toDomainAddress(l.Minter),
		TokenId:  l.TokenId,
		TokenUri: l.TokenURI,
		Category: l.Category,
	}, nil
}

func toTransferEvent(log *logWithBlockTime) (*nftitem.TransferEvent, error) {
	l, err := abi.ToTransferLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &nftitem.TransferEvent{
		From:    toDomainAddress(l.From),
		To:      toDomainAddress(l.To),
		TokenId: l.TokenId,
	}, nil
}

func toPublicMintToggledEvent(log *logWithBlockTime) (*collection.PublicMintToggledEvent, error) {
	l, err := abi.ToPublicMintToggledLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &collection.PublicMintToggledEvent{
		Enabled: l.Enabled,
	}, nil
}

func toCollaboratorAddedEvent(log *logWithBlockTime) (*collection.CollaboratorAddedEvent, error) {
	l, err := abi.ToCollaboratorAddedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &collection.CollaboratorAddedEvent{
		Collaborator: toDomainAddress(l.Collaborator),
	}, nil
}

func toCollaboratorRemovedEvent(log *logWithBlockTime) (*collection.CollaboratorRemovedEvent, error) {
	l, err := abi.ToCollaboratorRemovedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &collection.CollaboratorRemovedEvent{
		Collaborator: toDomainAddress(l.Collaborator),
	}, nil
}

func toMintPriceUpdatedEvent(log *logWithBlockTime) (*collection.MintPriceUpdatedEvent, error) {
	l, err := abi.ToMintPriceUpdatedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &collection.MintPriceUpdatedEvent{
		NewPrice: l.NewPrice,
	}, nil
}
