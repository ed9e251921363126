package usecase

import (
	"math/big"

	"github.com/shopspring/decimal"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/activity"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/listing"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/nftitem"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/chain/contract"
)

type ListingEventUseCaseCfg struct {
	ListingRepo    listing.Repo
	BidRepo        listing.BidRepo
	ActivityRepo   activity.Repo
	NftItemUseCase nftitem.Usecase

	// getListing view reads, auction end times are not part of the
	// creation event and have to be read back from the contract
	MarketplaceContract contract.MarketplaceContract
	MarketplaceAddress  domain.Address
}

type listingEventUseCase struct {
	listingRepo  listing.Repo
	bidRepo      listing.BidRepo
	activityRepo activity.Repo
	nftitemUC    nftitem.Usecase

	marketplaceContract contract.MarketplaceContract
	marketplaceAddress  domain.Address
}

func NewListingEventUseCase(cfg *ListingEventUseCaseCfg) listing.EventUseCase {
	return &listingEventUseCase{
		listingRepo:         cfg.ListingRepo,
		bidRepo:             cfg.BidRepo,
		activityRepo:        cfg.ActivityRepo,
		nftitemUC:           cfg.NftItemUseCase,
		marketplaceContract: cfg.MarketplaceContract,
		marketplaceAddress:  cfg.MarketplaceAddress.ToLower(),
	}
}

func (u *listingEventUseCase) ListingCreated(ctx bCtx.Ctx, chainId domain.ChainId, e *listing.ListingCreatedEvent, lMeta *domain.LogMeta) error {
	saleType := listing.SaleTypeFromCode(e.SaleType)
	payload := listing.CreatePayload{
		ChainId:         chainId,
		ListingId:       e.ListingId,
		Type:            saleType,
		ContractAddress: e.Nft.ToLower(),
		TokenId:         domain.TokenId(e.TokenId.String()),
		Seller:          e.Seller.ToLower(),
		Price:           e.Price.String(),
		Status:          listing.StatusActive,
		BlockNumber:     lMeta.BlockNumber,
		TxHash:          lMeta.TxHash,
		CreatedAt:       lMeta.BlockTime,
	}

	if err := u.listingRepo.Upsert(ctx, payload); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.Upsert failed")
		return err
	}

	if saleType == listing.SaleTypeAuction {
		u.backfillEndTime(ctx, chainId, e.ListingId)
	}

	act := &activity.Activity{
		ChainId:         chainId,
		Type:            activity.TypeList,
		ContractAddress: payload.ContractAddress,
		TokenId:         payload.TokenId,
		ListingId:       e.ListingId,
		Account:         payload.Seller,
		Price:           payload.Price,
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

// backfillEndTime reads the auction deadline off the contract. The
// creation event does not carry it. Best effort, a failed read leaves
// endTime unset rather than failing the listing write.
func (u *listingEventUseCase) backfillEndTime(ctx bCtx.Ctx, chainId domain.ChainId, listingId domain.ListingId) {
	id, ok := new(big.Int).SetString(string(listingId), 10)
	if !ok {
		ctx.WithField("listingId", listingId).Error("invalid listing id")
		return
	}

	state, err := u.marketplaceContract.GetListing(ctx, int32(chainId), u.marketplaceAddress.ToLowerStr(), id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("marketplaceContract.GetListing failed")
		return
	}

	endTime := state.EndTimeAsTime()
	if endTime == nil {
		return
	}

	patch := listing.PatchablePayload{EndTime: endTime}
	if err := u.listingRepo.Patch(ctx, listing.Id{ChainId: chainId, ListingId: listingId}, patch); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("listingRepo.Patch failed")
	}
}

func (u *listingEventUseCase) BidPlaced(ctx bCtx.Ctx, chainId domain.ChainId, e *listing.BidPlacedEvent, lMeta *domain.LogMeta) error {
	id := listing.Id{ChainId: chainId, ListingId: e.ListingId}
	amount := e.Amount.String()

	bid := &listing.Bid{
		ChainId:     chainId,
		ListingId:   e.ListingId,
		Bidder:      e.Bidder.ToLower(),
		Amount:      amount,
		Time:        lMeta.BlockTime,
		BlockNumber: lMeta.BlockNumber,
		TxHash:      lMeta.TxHash,
		LogIndex:    lMeta.LogIndex,
	}
	if err := u.bidRepo.Insert(ctx, bid); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("bidRepo.Insert failed")
		return err
	}

	current, err := u.listingRepo.FindOne(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.FindOne failed")
		return err
	}

	higher, err := isHigherBid(amount, current.HighestBid)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("failed to compare bid amounts")
		return err
	}
	if higher {
		patch := listing.PatchablePayload{
			HighestBid:    amount,
			HighestBidder: e.Bidder.ToLowerPtr(),
		}
		if err := u.listingRepo.Patch(ctx, id, patch); err != nil {
			ctx.WithFields(log.Fields{
				"err":       err,
				"listingId": e.ListingId,
			}).Error("listingRepo.Patch failed")
			return err
		}
	}

	act := &activity.Activity{
		ChainId:         chainId,
		Type:            activity.TypeBid,
		ContractAddress: current.ContractAddress,
		TokenId:         current.TokenId,
		ListingId:       e.ListingId,
		Account:         e.Bidder.ToLower(),
		Price:           amount,
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

// isHigherBid compares wei amounts as arbitrary-precision decimals,
// string comparison would rank "9" above "10"
func isHigherBid(amount, currentHighest string) (bool, error) {
	if currentHighest == "" {
		return true, nil
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return false, err
	}
	b, err := decimal.NewFromString(currentHighest)
	if err != nil {
		return false, err
	}
	return a.GreaterThan(b), nil
}

func (u *listingEventUseCase) SaleCompleted(ctx bCtx.Ctx, chainId domain.ChainId, e *listing.SaleCompletedEvent, lMeta *domain.LogMeta) error {
	id := listing.Id{ChainId: chainId, ListingId: e.ListingId}

	err := u.listingRepo.Close(ctx, id, listing.ClosePayload{
		Status: listing.StatusSold,
		Buyer:  e.Buyer.ToLowerPtr(),
	})
	if err == domain.ErrNotFound {
		// unknown or already closed, a redelivered sale is a no-op
		ctx.WithField("listingId", e.ListingId).Warn("no active listing to close")
		return nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.Close failed")
		return err
	}

	sold, err := u.listingRepo.FindOne(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.FindOne failed")
		return err
	}

	nftId := nftitem.Id{
		ChainId:         chainId,
		ContractAddress: sold.ContractAddress,
		TokenId:         sold.TokenId,
	}
	if err := u.nftitemUC.SetOwner(ctx, nftId, e.Buyer); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  nftId,
		}).Error("nftitemUC.SetOwner failed")
		return err
	}

	act := &activity.Activity{
		ChainId:         chainId,
		Type:            activity.TypeSale,
		ContractAddress: sold.ContractAddress,
		TokenId:         sold.TokenId,
		ListingId:       e.ListingId,
		Account:         e.Buyer.ToLower(),
		To:              sold.Seller,
		Price:           e.Amount.String(),
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

func (u *listingEventUseCase) ListingCancelled(ctx bCtx.Ctx, chainId domain.ChainId, e *listing.ListingCancelledEvent, lMeta *domain.LogMeta) error {
	id := listing.Id{ChainId: chainId, ListingId: e.ListingId}

	err := u.listingRepo.Close(ctx, id, listing.ClosePayload{Status: listing.StatusCancelled})
	if err == domain.ErrNotFound {
		ctx.WithField("listingId", e.ListingId).Warn("no active listing to close")
		return nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.Close failed")
		return err
	}

	cancelled, err := u.listingRepo.FindOne(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.FindOne failed")
		return err
	}

	act := &activity.Activity{
		ChainId:         chainId,
		Type:            activity.TypeCancel,
		ContractAddress: cancelled.ContractAddress,
		TokenId:         cancelled.TokenId,
		ListingId:       e.ListingId,
		Account:         cancelled.Seller,
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

func (u *listingEventUseCase) PriceUpdated(ctx bCtx.Ctx, chainId domain.ChainId, e *listing.PriceUpdatedEvent, lMeta *domain.LogMeta) error {
	id := listing.Id{ChainId: chainId, ListingId: e.ListingId}
	price := e.NewPrice.String()

	if err := u.listingRepo.Patch(ctx, id, listing.PatchablePayload{Price: price}); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.Patch failed")
		return err
	}

	updated, err := u.listingRepo.FindOne(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": e.ListingId,
		}).Error("listingRepo.FindOne failed")
		return err
	}

	act := &activity.Activity{
		ChainId:         chainId,
		Type:            activity.TypePriceUpdate,
		ContractAddress: updated.ContractAddress,
		TokenId:         updated.TokenId,
		ListingId:       e.ListingId,
		Account:         updated.Seller,
		Price:           price,
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

// RefundStored is observability only, escrowed refunds have no document
// to mutate
func (u *listingEventUseCase) RefundStored(ctx bCtx.Ctx, chainId domain.ChainId, e *listing.RefundStoredEvent, lMeta *domain.LogMeta) error {
	ctx.WithFields(log.Fields{
		"bidder": e.Bidder,
		"amount": e.Amount.String(),
		"txHash": lMeta.TxHash,
	}).Info("refund stored for bidder")
	return nil
}
