package tracker

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/abi"
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/listing"
)

var (
	listingCreatedSig   = abi.MarketplaceABI.Events["ListingCreated"].ID
	bidPlacedSig        = abi.MarketplaceABI.Events["BidPlaced"].ID
	saleCompletedSig    = abi.MarketplaceABI.Events["SaleCompleted"].ID
	listingCancelledSig = abi.MarketplaceABI.Events["ListingCancelled"].ID
	priceUpdatedSig     = abi.MarketplaceABI.Events["PriceUpdated"].ID
	refundStoredSig     = abi.MarketplaceABI.Events["RefundStored"].ID
)

type MarketplaceEventHandlerCfg struct {
	ChainId        int64
	ListingUseCase listing.EventUseCase
}

type MarketplaceEventHandler struct {
	chainId   int64
	listingUC listing.EventUseCase
}

func NewMarketplaceEventHandler(cfg *MarketplaceEventHandlerCfg) EventHandler {
	return &MarketplaceEventHandler{
		chainId:   cfg.ChainId,
		listingUC: cfg.ListingUseCase,
	}
}

func (h *MarketplaceEventHandler) GetFilterTopics() [][]common.Hash {
	return [][]common.Hash{
		{listingCreatedSig, bidPlacedSig, saleCompletedSig, listingCancelledSig, priceUpdatedSig, refundStoredSig},
	}
}

func (h *MarketplaceEventHandler) ProcessEvents(ctx bCtx.Ctx, logs []logWithBlockTime) error {
	// a failure on one listing never blocks bids/sales of other listings
	for _, log := range logs {
		switch log.Topics[0] {
		case listingCreatedSig:
			e, err := toListingCreatedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse ListingCreated log")
				continue
			}
			err = h.listingUC.ListingCreated(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("listingUC.ListingCreated failed")
				continue
			}
		case bidPlacedSig:
			e, err := toBidPlacedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse BidPlaced log")
				continue
			}
			err = h.listingUC.BidPlaced(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("listingUC.BidPlaced failed")
				continue
			}
		case saleCompletedSig:
			e, err := toSaleCompletedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse SaleCompleted log")
				continue
			}
			err = h.listingUC.SaleCompleted(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("listingUC.SaleCompleted failed")
				continue
			}
		case listingCancelledSig:
			e, err := toListingCancelledEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse ListingCancelled log")
				continue
			}
			err = h.listingUC.ListingCancelled(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("listingUC.ListingCancelled failed")
				continue
			}
		case priceUpdatedSig:
			e, err := toPriceUpdatedEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse PriceUpdated log")
				continue
			}
			err = h.listingUC.PriceUpdated(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("listingUC.PriceUpdated failed")
				continue
			}
		case refundStoredSig:
			e, err := toRefundStoredEvent(&log)
			if err != nil {
				ctx.WithField("err", err).Error("failed to parse RefundStored log")
				continue
			}
			err = h.listingUC.RefundStored(ctx, domain.ChainId(h.chainId), e, toLogMeta(&log))
			if err != nil {
				ctx.WithField("err", err).Error("listingUC.RefundStored failed")
				continue
			}
		default:
			ctx.WithField("signature", log.Topics[0]).Warn("unrecognized signature, skipping")
		}
	}
	return nil
}

func toListingCreatedEvent(log *logWithBlockTime) (*listing.ListingCreatedEvent, error) {
	l, err := abi.ToListingCreatedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &listing.ListingCreatedEvent{
		ListingId: toListingId(l.ListingId),
		Seller:    toDomainAddress(l.Seller),
		Nft:       toDomainAddress(l.NftContract),
		TokenId:   l.TokenId,
		SaleType:  l.SaleType,
		Price:     l.Price,
	}, nil
}

func toBidPlacedEvent(log *logWithBlockTime) (*listing.BidPlacedEvent, error) {
	l, err := abi.ToBidPlacedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &listing.BidPlacedEvent{
		ListingId: toListingId(l.ListingId),
		Bidder:    toDomainAddress(l.Bidder),
		Amount:    l.Amount,
	}, nil
}

func toSaleCompletedEvent(log *logWithBlockTime) (*listing.SaleCompletedEvent, error) {
	l, err := abi.ToSaleCompletedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &listing.SaleCompletedEvent{
		ListingId: toListingId(l.ListingId),
		Buyer:     toDomainAddress(l.Buyer),
		Amount:    l.Amount,
	}, nil
}

func toListingCancelledEvent(log *logWithBlockTime) (*listing.ListingCancelledEvent, error) {
	l, err := abi.ToListingCancelledLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &listing.ListingCancelledEvent{
		ListingId: toListingId(l.ListingId),
	}, nil
}

func toPriceUpdatedEvent(log *logWithBlockTime) (*listing.PriceUpdatedEvent, error) {
	l, err := abi.ToPriceUpdatedLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &listing.PriceUpdatedEvent{
		ListingId: toListingId(l.ListingId),
		NewPrice:  l.NewPrice,
	}, nil
}

func toRefundStoredEvent(log *logWithBlockTime) (*listing.RefundStoredEvent, error) {
	l, err := abi.ToRefundStoredLog(&log.Log)
	if err != nil {
		return nil, err
	}

	return &listing.RefundStoredEvent{
		Bidder: toDomainAddress(l.Bidder),
		Amount: l.Amount,
	}, nil
}
