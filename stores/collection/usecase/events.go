package usecase

import (
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ptr"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/collection"
)

type CollectionEventUseCaseCfg struct {
	CollectionRepo collection.Repo
}

type collectionEventUseCase struct {
	collectionRepo collection.Repo
}

func NewCollectionEventUseCase(cfg *CollectionEventUseCaseCfg) collection.EventUseCase {
	return &collectionEventUseCase{
		collectionRepo: cfg.CollectionRepo,
	}
}

// CollectionCreated writes the collection document. Upserting on
// (chainId, address) keeps redelivered creation events idempotent.
func (u *collectionEventUseCase) CollectionCreated(ctx bCtx.Ctx, chainId domain.ChainId, e *collection.CollectionCreatedEvent, lMeta *domain.LogMeta) error {
	payload := collection.CreatePayload{
		ChainId:           chainId,
		Address:           e.Collection.ToLower(),
		Creator:           e.Creator.ToLower(),
		Name:              e.Name,
		Symbol:            e.Symbol,
		MaxSupply:         e.MaxSupply.Int64(),
		MaxPerWallet:      e.MaxPerWallet.Int64(),
		MintPrice:         "0",
		PublicMintEnabled: false,
		Collaborators:     []domain.Address{},
		BlockNumber:       lMeta.BlockNumber,
		TxHash:            lMeta.TxHash,
		CreatedAt:         lMeta.BlockTime,
	}

	if err := u.collectionRepo.Upsert(ctx, payload); err != nil {
		ctx.WithFields(log.Fields{
			"err":        err,
			"collection": payload.Address,
		}).Error("collectionRepo.Upsert failed")
		return err
	}
	return nil
}

func (u *collectionEventUseCase) PublicMintToggled(ctx bCtx.Ctx, chainId domain.ChainId, e *collection.PublicMintToggledEvent, lMeta *domain.LogMeta) error {
	id := collection.CollectionId{ChainId: chainId, Address: lMeta.ContractAddress.ToLower()}
	update := collection.UpdatePayload{PublicMintEnabled: ptr.Bool(e.Enabled)}

	if err := u.collectionRepo.Update(ctx, id, update); err != nil {
		ctx.WithFields(log.Fields{
			"err":        err,
			"collection": id.Address,
		}).Error("collectionRepo.Update failed")
		return err
	}
	return nil
}

func (u *collectionEventUseCase) CollaboratorAdded(ctx bCtx.Ctx, chainId domain.ChainId, e *collection.CollaboratorAddedEvent, lMeta *domain.LogMeta) error {
	id := collection.CollectionId{ChainId: chainId, Address: lMeta.ContractAddress.ToLower()}

	if err := u.collectionRepo.AddCollaborator(ctx, id, e.Collaborator); err != nil {
		ctx.WithFields(log.Fields{
			"err":          err,
			"collection":   id.Address,
			"collaborator": e.Collaborator,
		}).Error("collectionRepo.AddCollaborator failed")
		return err
	}
	return nil
}

func (u *collectionEventUseCase) CollaboratorRemoved(ctx bCtx.Ctx, chainId domain.ChainId, e *collection.CollaboratorRemovedEvent, lMeta *domain.LogMeta) error {
	id := collection.CollectionId{ChainId: chainId, Address: lMeta.ContractAddress.ToLower()}

	if err := u.collectionRepo.RemoveCollaborator(ctx, id, e.Collaborator); err != nil {
		ctx.WithFields(log.Fields{
			"err":          err,
			"collection":   id.Address,
			"collaborator": e.Collaborator,
		}).Error("collectionRepo.RemoveCollaborator failed")
		return err
	}
	return nil
}

func (u *collectionEventUseCase) MintPriceUpdated(ctx bCtx.Ctx, chainId domain.ChainId, e *collection.MintPriceUpdatedEvent, lMeta *domain.LogMeta) error {
	id := collection.CollectionId{ChainId: chainId, Address: lMeta.ContractAddress.ToLower()}
	update := collection.UpdatePayload{MintPrice: e.NewPrice.String()}

	if err := u.collectionRepo.Update(ctx, id, update); err != nil {
		ctx.WithFields(log.Fields{
			"err":        err,
			"collection": id.Address,
		}).Error("collectionRepo.Update failed")
		return err
	}
	return nil
}
