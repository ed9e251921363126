package main

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viney-shih/goroutines"

	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/abi"
	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/database/mongoclient"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/activity"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/listing"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/chain"
	serviceContract "github.com/Kaksie-codes/my-nft-marketplace-sub000/service/chain/contract"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
	activityRepo "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/activity/repository"
	listingRepo "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/listing/repository"
)

var listingCreatedSig = abi.MarketplaceABI.Events["ListingCreated"].ID

func init() {
	pflag.String("config", "infra/configs/backfill/config.yaml", "path to the config file")
	pflag.Int64("from", 0, "first block of the range, inclusive")
	pflag.Int64("to", 0, "last block of the range, inclusive")
	pflag.Int64("batchSize", 5000, "blocks per getLogs query")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(viper.GetString("config"))
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	// overwrite active network in the config if the environment has been set
	viper.BindEnv("ACTIVENETWORK")
}

func main() {
	ctx := bCtx.Background()

	from := viper.GetInt64("from")
	to := viper.GetInt64("to")
	batchSize := viper.GetInt64("batchSize")
	if from <= 0 || to < from {
		ctx.WithFields(log.Fields{
			"from": from,
			"to":   to,
		}).Panic("invalid block range, pass --from and --to")
	}

	activeNetwork := viper.GetString("activeNetwork")
	networkInfo := viper.Sub(fmt.Sprintf("networks.%s", activeNetwork))
	chainId := networkInfo.GetInt64("chainId")
	rpcUrl := networkInfo.GetString("rpcUrl")
	marketplaceContract := viper.Sub(fmt.Sprintf("contract.%s", activeNetwork)).GetString("marketplace")

	ctx.WithFields(log.Fields{
		"network":             activeNetwork,
		"chainId":             chainId,
		"rpcUrl":              rpcUrl,
		"marketplaceContract": marketplaceContract,
		"from":                from,
		"to":                  to,
	}).Info("config")

	q := initMongo()
	rpcClient, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": rpcUrl,
		}).Panic("failed to connect rpc")
	}

	chainService, err := chain.NewClient(ctx, &chain.ClientCfg{
		RpcUrls: map[int32]string{
			int32(chainId): rpcUrl,
		},
	})
	if err != nil {
		ctx.WithField("err", err).Panic("chainService init failed")
	}

	b := &backfiller{
		chainId:            domain.ChainId(chainId),
		marketplaceAddress: domain.Address(marketplaceContract).ToLower(),
		rpcClient:          rpcClient,
		marketplace:        serviceContract.NewMarketplace(chainService),
		listingRepo:        listingRepo.NewListing(q),
		activityRepo:       activityRepo.NewActivity(q),
		workerPool:         goroutines.NewPool(32, goroutines.WithTaskQueueLength(1024), goroutines.WithPreAllocWorkers(8)),
	}
	defer b.workerPool.Release()

	address := common.HexToAddress(marketplaceContract)
	var wg sync.WaitGroup
	for start := from; start <= to; start += batchSize {
		end := start + batchSize - 1
		if end > to {
			end = to
		}

		filter := ethereum.FilterQuery{
			FromBlock: big.NewInt(start),
			ToBlock:   big.NewInt(end),
			Addresses: []common.Address{address},
			Topics:    [][]common.Hash{{listingCreatedSig}},
		}
		logs, err := rpcClient.FilterLogs(ctx, filter)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":  err,
				"from": start,
				"to":   end,
			}).Panic("rpcClient.FilterLogs failed")
		}
		ctx.WithFields(log.Fields{
			"from": start,
			"to":   end,
			"logs": len(logs),
		}).Info("scanning range")

		for i := range logs {
			l := logs[i]
			wg.Add(1)
			err := b.workerPool.ScheduleWithTimeout(3*time.Second, func() {
				defer wg.Done()
				b.process(ctx, &l)
			})
			if err != nil {
				wg.Done()
				ctx.WithFields(log.Fields{
					"err":    err,
					"txHash": l.TxHash.Hex(),
				}).Error("failed to ScheduleWithTimeout")
			}
		}
	}
	wg.Wait()

	ctx.WithFields(log.Fields{
		"repaired": atomic.LoadInt64(&b.repaired),
		"skipped":  atomic.LoadInt64(&b.skipped),
	}).Info("backfill complete")
}

// backfiller re-derives listing and activity documents from historical
// ListingCreated logs the live watcher missed
type backfiller struct {
	chainId            domain.ChainId
	marketplaceAddress domain.Address

	rpcClient    *ethclient.Client
	marketplace  serviceContract.MarketplaceContract
	listingRepo  listing.Repo
	activityRepo activity.Repo
	workerPool   *goroutines.Pool

	repaired int64
	skipped  int64
}

func (b *backfiller) process(ctx bCtx.Ctx, l *types.Log) {
	created, err := abi.ToListingCreatedLog(l)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"txHash": l.TxHash.Hex(),
		}).Error("failed to parse ListingCreated log")
		return
	}

	listingId := domain.ListingId(created.ListingId.String())
	id := listing.Id{ChainId: b.chainId, ListingId: listingId}

	count, err := b.listingRepo.Count(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("listingRepo.Count failed")
		return
	}
	if count > 0 {
		atomic.AddInt64(&b.skipped, 1)
		return
	}

	header, err := b.rpcClient.HeaderByNumber(ctx, new(big.Int).SetUint64(l.BlockNumber))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":         err,
			"blockNumber": l.BlockNumber,
		}).Error("rpcClient.HeaderByNumber failed")
		return
	}
	blockTime := time.Unix(int64(header.Time), 0).UTC()

	// one view read covers the auction end time and the terminal flags,
	// so a listing sold or cancelled since creation is not resurrected
	// as active
	state, err := b.marketplace.GetListing(ctx, int32(b.chainId), b.marketplaceAddress.ToLowerStr(), created.ListingId)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("marketplace.GetListing failed")
		return
	}

	saleType := listing.SaleTypeFromCode(created.SaleType)
	status := listing.StatusActive
	switch {
	case state.Sold:
		status = listing.StatusSold
	case state.Cancelled:
		status = listing.StatusCancelled
	case saleType == listing.SaleTypeAuction && state.HasEnded(time.Now()):
		status = listing.StatusEnded
	}

	payload := listing.CreatePayload{
		ChainId:         b.chainId,
		ListingId:       listingId,
		Type:            saleType,
		ContractAddress: domain.Address(created.NftContract.Hex()).ToLower(),
		TokenId:         domain.TokenId(created.TokenId.String()),
		Seller:          domain.Address(created.Seller.Hex()).ToLower(),
		Price:           created.Price.String(),
		Status:          status,
		BlockNumber:     domain.BlockNumber(l.BlockNumber),
		TxHash:          domain.TxHash(l.TxHash.Hex()),
		CreatedAt:       blockTime,
	}
	if err := b.listingRepo.Upsert(ctx, payload); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("listingRepo.Upsert failed")
		return
	}

	if saleType == listing.SaleTypeAuction {
		patch := listing.PatchablePayload{EndTime: state.EndTimeAsTime()}
		if state.HighestBid != nil && state.HighestBid.Sign() > 0 {
			patch.HighestBid = state.HighestBid.String()
			bidder := domain.Address(state.HighestBidder.Hex()).ToLower()
			patch.HighestBidder = &bidder
		}
		if err := b.listingRepo.Patch(ctx, id, patch); err != nil {
			ctx.WithFields(log.Fields{
				"err":       err,
				"listingId": listingId,
			}).Error("listingRepo.Patch failed")
		}
	}

	// the list activity can survive a lost listing document, only insert
	// when it is missing too
	actCount, err := b.activityRepo.Count(ctx,
		activity.WithChainId(b.chainId),
		activity.WithType(activity.TypeList),
		activity.WithListingId(listingId),
	)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("activityRepo.Count failed")
		return
	}
	if actCount == 0 {
		act := &activity.Activity{
			ChainId:         b.chainId,
			Type:            activity.TypeList,
			ContractAddress: payload.ContractAddress,
			TokenId:         payload.TokenId,
			ListingId:       listingId,
			Account:         payload.Seller,
			Price:           payload.Price,
			Time:            blockTime,
			BlockNumber:     payload.BlockNumber,
			TxHash:          payload.TxHash,
			LogIndex:        l.Index,
		}
		if err := b.activityRepo.Insert(ctx, act); err != nil {
			ctx.WithFields(log.Fields{
				"err":       err,
				"listingId": listingId,
			}).Error("activityRepo.Insert failed")
			return
		}
	}

	atomic.AddInt64(&b.repaired, 1)
	ctx.WithFields(log.Fields{
		"listingId": listingId,
		"status":    status,
	}).Info("listing backfilled")
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}
