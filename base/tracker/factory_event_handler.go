package tracker

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/abi"
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/collection"
)

var (
	collectionCreatedSig = abi.FactoryABI.Events["CollectionCreated"].ID
)

type FactoryEventHandlerCfg struct {
	ChainId           int64
	CollectionUseCase collection.EventUseCase
	// called after the collection document is written, so the registry
	// can start watching the new contract
	OnNewCollection func(bCtx.Ctx, domain.Address)
}

type FactoryEventHandler struct {
	chainId         int64
	collectionUC    collection.EventUseCase
	onNewCollection func(bCtx.Ctx, domain.Address)
}

func NewFactoryEventHandler(cfg *FactoryEventHandlerCfg) EventHandler {
	return &FactoryEventHandler{
		chainId:         cfg.ChainId,
		collectionUC:    cfg.CollectionUseCase,
		onNewCollection: cfg.OnNewCollection,
	}
}

func (h *FactoryEventHandler) GetFilterTopics() [][]common.Hash {
	return [][]common.Hash{
		{collectionCreatedSig},
	}
}

func (h *FactoryEventHandler) ProcessEvents(ctx bCtx.Ctx, logs []logWithBlockTime) error {
	for _, log := range logs {
		switch log.Topics[0] {
		case collectionCreatedSig:
			e, err := toCollectionCreatedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse CollectionCreated log")
				continue
			}
			err = h.collectionUC.CollectionCreated(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("collectionUC.CollectionCreated failed")
				continue
			}
			if h.onNewCollection != nil {
				h.onNewCollection(ctx, e.Collection)
			}
		default:
			ctx.WithField("signature", log.Topics[0]).Warn("unrecognized signature, skipping")
		}
	}
	return nil
}

func toCollectionCreatedEvent(log *logWithBlockTime) (*collection.CollectionCreatedEvent, error) {
	l, err := abi.ToCollectionCreatedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &collection.CollectionCreatedEvent{
		Creator:      toDomainAddress(l.Creator),
		Collection:   toDomainAddress(l.Collection),
		Name:         l.Name,
		Symbol:       l.Symbol,
		MaxSupply:    l.MaxSupply,
		MaxPerWallet: l.MaxPerWallet,
	}, nil
}
